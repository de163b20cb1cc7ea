package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rubiojr/trialsearch/pkg/filters"
	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/rubiojr/trialsearch/pkg/ui"
	"github.com/urfave/cli/v3"
)

// FilterCommand creates the filter command
func FilterCommand() *cli.Command {
	return &cli.Command{
		Name:  "filter",
		Usage: "Search with explicit filters instead of a free-text query",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "phase",
				Usage: "Trial phase (" + strings.Join(trials.Phases, ", ") + ")",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Overall status (" + strings.Join(trials.Statuses, ", ") + ")",
			},
			&cli.StringFlag{
				Name:  "condition",
				Usage: "Condition name",
			},
			&cli.StringFlag{
				Name:  "city",
				Usage: "Facility city",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Facility state",
			},
			&cli.StringFlag{
				Name:  "country",
				Usage: "Facility country",
			},
			&cli.StringFlag{
				Name:  "sponsor",
				Usage: "Sponsor name",
			},
			&cli.StringFlag{
				Name:  "keyword",
				Usage: "Free-text keyword",
			},
			&cli.StringFlag{
				Name:  "age-group",
				Usage: "Age group (" + strings.Join(trials.AgeGroups, ", ") + ")",
			},
			&cli.IntFlag{
				Name:  "min-enrollment",
				Usage: "Minimum enrollment",
			},
			&cli.IntFlag{
				Name:  "max-enrollment",
				Usage: "Maximum enrollment",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			state, err := filterStateFrom(c)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			opts, err := outputOptionsFrom(c, cfg)
			if err != nil {
				return err
			}
			return filterTrials(ctx, newClient(cfg), state, opts, os.Stdout)
		},
	}
}

// filterStateFrom builds a filter state from the command flags, rejecting
// values outside the closed catalogs.
func filterStateFrom(c *cli.Command) (filters.State, error) {
	s := filters.State{
		Condition: strings.TrimSpace(c.String("condition")),
		Sponsor:   strings.TrimSpace(c.String("sponsor")),
		Keyword:   strings.TrimSpace(c.String("keyword")),
		Location: filters.Location{
			City:    strings.TrimSpace(c.String("city")),
			State:   strings.TrimSpace(c.String("state")),
			Country: strings.TrimSpace(c.String("country")),
		},
	}

	if v := strings.ToUpper(strings.TrimSpace(c.String("phase"))); v != "" {
		if !slices.Contains(trials.Phases, v) {
			return s, fmt.Errorf("unknown phase %q", v)
		}
		s.Phase = trials.Ptr(v)
	}
	if v := strings.ToUpper(strings.TrimSpace(c.String("status"))); v != "" {
		if !slices.Contains(trials.Statuses, v) {
			return s, fmt.Errorf("unknown status %q", v)
		}
		s.Status = trials.Ptr(v)
	}
	if v := strings.ToLower(strings.TrimSpace(c.String("age-group"))); v != "" {
		if !slices.Contains(trials.AgeGroups, v) {
			return s, fmt.Errorf("unknown age group %q", v)
		}
		s.AgeGroups = []string{v}
	}

	if c.IsSet("min-enrollment") {
		s.EnrollmentMin = trials.Ptr(c.Int("min-enrollment"))
	}
	if c.IsSet("max-enrollment") {
		s.EnrollmentMax = trials.Ptr(c.Int("max-enrollment"))
	}
	if s.EnrollmentMin != nil && s.EnrollmentMax != nil && *s.EnrollmentMin > *s.EnrollmentMax {
		return s, fmt.Errorf("--min-enrollment %d exceeds --max-enrollment %d", *s.EnrollmentMin, *s.EnrollmentMax)
	}

	if filters.CountActive(s) == 0 {
		return s, fmt.Errorf("at least one filter is required")
	}
	return s, nil
}

// filterTrials runs a structured search. Filter searches never carry a
// summary.
func filterTrials(ctx context.Context, svc ui.Service, state filters.State, opts outputOptions, w io.Writer) error {
	resp, err := svc.SearchWithFilters(ctx, filters.ToEntities(state), opts.Page, opts.PageSize)
	if err != nil {
		return fmt.Errorf("filtering trials: %w", err)
	}

	if opts.JSON {
		return writeJSON(w, resp)
	}

	chips := filters.Chips(filters.ToEntities(state))
	labels := make([]string, len(chips))
	for i, chip := range chips {
		labels[i] = chip.String()
	}
	return emit(w, renderResponse("⚙ "+strings.Join(labels, " · "), resp, opts), opts.Pager)
}
