package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) prompt() string {
	if a.user != "" {
		return fmt.Sprintf("venus (%s)> ", a.user)
	}
	return "venus> "
}

// repl reads commands until EOF, "exit" or "quit". Command errors are
// printed and the loop goes on. Lines are read from the same buffered reader
// the prompts use, so a command can ask for more input.
func (a *App) repl(ctx context.Context) error {
	fmt.Fprintln(a.out, "Venus CLI (type 'help' for commands)")

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(a.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}

		if err := a.Exec(ctx, parts); err != nil {
			if errors.Is(err, ErrUsage) {
				fmt.Fprintln(a.out, err)
				fmt.Fprintln(a.out, "Type 'help' for commands")
				continue
			}
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}
