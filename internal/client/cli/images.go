package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

func (a *App) Images(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.listImages(ctx)
	case "upload":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("%w: images upload <file> [project-id]", ErrUsage)
		}
		projectID := ""
		if len(args) == 2 {
			projectID = args[1]
		}
		return a.uploadImage(ctx, args[0], projectID)
	default:
		return fmt.Errorf("%w: unknown images command %q", ErrUsage, sub)
	}
}

func (a *App) listImages(ctx context.Context) error {
	list, err := a.api.ListImages(ctx)
	if err != nil {
		return authErr(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No images")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tPROJECT")
	for _, img := range list {
		project := "-"
		if img.ProjectID != nil {
			project = *img.ProjectID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", img.ID, img.OriginalName, img.MimeType, humanize.Bytes(uint64(img.Size)), project)
	}
	return tw.Flush()
}

func (a *App) uploadImage(ctx context.Context, path, projectID string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := a.api.UploadImage(ctx, path, f, projectID)
	if err != nil {
		return authErr(err)
	}
	fmt.Fprintf(a.out, "Uploaded %s as %s (%s)\n", img.OriginalName, img.ID, humanize.Bytes(uint64(img.Size)))
	return nil
}
