package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/trialsearch/pkg/ui"
	"github.com/rubiojr/trialsearch/pkg/ui/components"
	"github.com/urfave/cli/v3"
)

// SummaryCommand creates the summary command
func SummaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Show the generated summary for a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the summary as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return fmt.Errorf("a query is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return summarizeQuery(ctx, newClient(cfg), query, c.Bool("json"), os.Stdout)
		},
	}
}

type summaryOutput struct {
	Query   string  `json:"query"`
	Summary *string `json:"summary"`
}

// summarizeQuery prints the summary for query, or a note when the service
// has none.
func summarizeQuery(ctx context.Context, svc ui.Service, query string, asJSON bool, w io.Writer) error {
	summary, ok := svc.FetchSummary(ctx, query)

	if asJSON {
		out := summaryOutput{Query: query}
		if ok {
			out.Summary = &summary
		}
		return writeJSON(w, out)
	}

	if !ok {
		_, err := fmt.Fprint(w, noDataStyle.Render(fmt.Sprintf("No summary available for %q", query))+"\n")
		return err
	}
	_, err := fmt.Fprint(w, components.NewAISummary(summary).View(outputWidth, false)+"\n")
	return err
}
