package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/venus/internal/client/client"
	"github.com/dmitrijs2005/venus/internal/client/config"
)

var (
	ErrUsage       = errors.New("usage")
	ErrNotLoggedIn = errors.New(`not logged in, run "venus-cli login"`)
)

const usage = `Commands:
  register                     create an account and log in
  login                        log in and remember the token
  logout                       forget the saved token
  whoami                       show the logged in account
  ping                         check that the server answers
  projects [list]              list your projects
  projects create <name>       create a project
  projects show <id>           print a project with its content
  projects delete <id>         delete a project
  images [list]                list your images
  images upload <file> [project-id]
  help                         show this text`

type App struct {
	api    client.Client
	tokens *TokenStore
	reader *bufio.Reader
	out    io.Writer
	user   string
}

// NewApp wires the HTTP client and token store described by cfg.
func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return newApp(client.NewHTTPClient(cfg.ServerURL, cfg.Timeout), NewTokenStore(cfg.TokenFile), in, out)
}

func newApp(api client.Client, tokens *TokenStore, in io.Reader, out io.Writer) *App {
	return &App{api: api, tokens: tokens, reader: bufio.NewReader(in), out: out}
}

// Run restores the saved token, then executes args as one command or, when
// args is empty, starts the interactive prompt.
func (a *App) Run(ctx context.Context, args []string) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.api.SetToken(token)

	if len(args) == 0 {
		return a.repl(ctx)
	}
	return a.Exec(ctx, args)
}

// Exec runs a single command.
func (a *App) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "ping":
		return a.Ping(ctx)
	case "projects":
		return a.Projects(ctx, rest)
	case "images":
		return a.Images(ctx, rest)
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}

// authErr turns a 401 into ErrNotLoggedIn.
func authErr(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return ErrNotLoggedIn
	}
	return err
}
