package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/trialsearch/pkg/ui"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a natural-language search against the service",
		ArgsUsage: "<query>",
		Flags: append(outputFlags(),
			&cli.BoolFlag{
				Name:  "no-summary",
				Usage: "Skip the generated summary",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return fmt.Errorf("a search query is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			opts, err := outputOptionsFrom(c, cfg)
			if err != nil {
				return err
			}
			opts.Summary = !c.Bool("no-summary")
			return searchTrials(ctx, newClient(cfg), query, opts, os.Stdout)
		},
	}
}

// searchTrials runs a natural-language search and prints the response. The
// summary is only requested for the first page, matching the TUI.
func searchTrials(ctx context.Context, svc ui.Service, query string, opts outputOptions, w io.Writer) error {
	resp, err := svc.Search(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}

	if opts.Summary && opts.Page == 1 && len(resp.Results) > 0 && resp.Summary == nil {
		if summary, ok := svc.FetchSummary(ctx, query); ok {
			resp.Summary = &summary
		}
	}

	if opts.JSON {
		return writeJSON(w, resp)
	}
	return emit(w, renderResponse(fmt.Sprintf("🔎 %s", query), resp, opts), opts.Pager)
}
