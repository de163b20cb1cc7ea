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

// SuggestCommand creates the suggest command
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show autocomplete suggestions for a prefix",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print suggestions as a JSON array",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			prefix := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if prefix == "" {
				return fmt.Errorf("a prefix is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return suggestQueries(ctx, newClient(cfg), prefix, c.Bool("json"), os.Stdout)
		},
	}
}

// suggestQueries prints completions for prefix. Failures and short prefixes
// both print an empty list.
func suggestQueries(ctx context.Context, svc ui.Service, prefix string, asJSON bool, w io.Writer) error {
	suggestions := svc.Suggest(ctx, prefix)
	if suggestions == nil {
		suggestions = []string{}
	}
	if asJSON {
		return writeJSON(w, suggestions)
	}
	_, err := fmt.Fprint(w, renderSuggestions(prefix, suggestions))
	return err
}
