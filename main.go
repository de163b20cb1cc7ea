package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/rubiojr/trialsearch/cmd"
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/rubiojr/trialsearch/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "trialsearch",
		Usage: "Search clinical trials from the terminal",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Search service base URL, overriding api_url from the config",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetGlobalDebug(c.Bool("debug"))
			return ctx, nil
		},
		Action: cmd.RunTUI,
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.TUICommand(),
			cmd.SearchCommand(),
			cmd.FilterCommand(),
			cmd.SuggestCommand(),
			cmd.SummaryCommand(),
			cmd.StubCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
