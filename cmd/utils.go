package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rubiojr/trialsearch/pkg/client"
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/urfave/cli/v3"
)

// loadConfig loads the configuration file and applies the global --api-url
// override on top of it.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if u := strings.TrimSpace(c.String("api-url")); u != "" {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return nil, fmt.Errorf("--api-url must be an http(s) URL, got %q", u)
		}
		cfg.APIURL = strings.TrimRight(u, "/")
	}
	return cfg, nil
}

// newClient builds a service client from the loaded configuration.
func newClient(cfg *config.Config) *client.Client {
	var opts []client.Option
	if cfg.RequestTimeout.Duration > 0 {
		opts = append(opts, client.WithTimeout(cfg.RequestTimeout.Duration))
	}
	return client.New(cfg.APIURL, opts...)
}

// outputFlags are shared by the commands that print search results.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Result page to fetch (1-based)",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Results per page (0 uses the configured page size)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the raw service response as JSON",
		},
		&cli.BoolFlag{
			Name:  "expand",
			Usage: "Show every result card expanded",
		},
		&cli.BoolFlag{
			Name:  "no-pager",
			Usage: "Disable pager and output directly to terminal",
			Value: false,
		},
	}
}

// outputOptions controls how a search response is fetched and printed.
type outputOptions struct {
	Page      int
	PageSize  int
	JSON      bool
	Expand    bool
	Pager     bool
	Summary   bool
	Suggested []string
}

func outputOptionsFrom(c *cli.Command, cfg *config.Config) (outputOptions, error) {
	opts := outputOptions{
		Page:      c.Int("page"),
		PageSize:  c.Int("page-size"),
		JSON:      c.Bool("json"),
		Expand:    c.Bool("expand"),
		Pager:     !c.Bool("no-pager") && isTerminal(),
		Suggested: cfg.SuggestedQueries,
	}
	if opts.Page < 1 {
		return opts, fmt.Errorf("--page must be at least 1, got %d", opts.Page)
	}
	if opts.PageSize == 0 {
		opts.PageSize = cfg.PageSize
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		return opts, fmt.Errorf("--page-size must be between 1 and 100, got %d", opts.PageSize)
	}
	return opts, nil
}

// emit writes content to w, through a pager when asked to.
func emit(w io.Writer, content string, pager bool) error {
	if pager {
		return displayWithPager(content)
	}
	_, err := fmt.Fprint(w, content)
	return err
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		for _, pager := range []string{"less", "more", "cat"} {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	// -R keeps the lipgloss colors
	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
