// Package cli implements venus-cli.
//
// Commands can be given on the command line ("venus-cli projects list") or,
// with no arguments, typed into an interactive prompt. Passwords are read
// without echo. The bearer token returned by register and login is kept in
// a 0600 file so later invocations stay logged in until logout.
package cli
