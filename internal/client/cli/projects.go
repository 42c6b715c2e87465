package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) Projects(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.listProjects(ctx)
	case "create":
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return fmt.Errorf("%w: projects create <name>", ErrUsage)
		}
		return a.createProject(ctx, name)
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("%w: projects show <id>", ErrUsage)
		}
		return a.showProject(ctx, args[0])
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: projects delete <id>", ErrUsage)
		}
		return a.deleteProject(ctx, args[0])
	default:
		return fmt.Errorf("%w: unknown projects command %q", ErrUsage, sub)
	}
}

func (a *App) listProjects(ctx context.Context) error {
	list, err := a.api.ListProjects(ctx)
	if err != nil {
		return authErr(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No projects")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
	}
	return tw.Flush()
}

func (a *App) createProject(ctx context.Context, name string) error {
	p, err := a.api.CreateProject(ctx, name)
	if err != nil {
		return authErr(err)
	}
	fmt.Fprintf(a.out, "Created project %s (%s)\n", p.Name, p.ID)
	return nil
}

func (a *App) showProject(ctx context.Context, id string) error {
	p, err := a.api.GetProject(ctx, id)
	if err != nil {
		return authErr(err)
	}

	fmt.Fprintf(a.out, "ID:      %s\nName:    %s\nUpdated: %s\n", p.ID, p.Name, p.UpdatedAt.Format("2006-01-02 15:04:05"))
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.Content, "", "  "); err != nil {
		buf.Reset()
		buf.Write(p.Content)
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}

func (a *App) deleteProject(ctx context.Context, id string) error {
	if err := a.api.DeleteProject(ctx, id); err != nil {
		return authErr(err)
	}
	fmt.Fprintf(a.out, "Deleted project %s\n", id)
	return nil
}
