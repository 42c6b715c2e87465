package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/venus/internal/flagx"
)

var flagNames = []string{"-s", "-t", "-timeout"}

// parseFlags overlays -s, -t and -timeout. Anything else in args (the
// subcommand and its arguments) is left for the caller.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("venus-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "server URL")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "token file")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")

	return fs.Parse(args)
}

// Positional returns args with every recognised configuration flag (and its
// value) removed, using the same value rules as flagx.FilterArgs.
func Positional(args []string) []string {
	known := map[string]struct{}{"-c": {}, "-config": {}}
	for _, f := range flagNames {
		known[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") && strings.Contains(a, "=") {
			name, _, _ := strings.Cut(a, "=")
			if _, ok := known[name]; ok {
				continue
			}
		} else if _, ok := known[a]; ok {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
