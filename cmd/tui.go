package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rubiojr/trialsearch/pkg/config"
	"github.com/rubiojr/trialsearch/pkg/log"
	"github.com/rubiojr/trialsearch/pkg/ui"
	"github.com/urfave/cli/v3"
)

// TUICommand creates the tui command
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive search interface",
		Action: RunTUI,
	}
}

// RunTUI opens the interactive interface. It is also the root command's
// default action.
func RunTUI(ctx context.Context, c *cli.Command) error {
	configPath := c.String("config")
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so log lines go to a file.
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
	} else {
		closeLog, err := log.ToFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}()
	}

	logger := log.ForService("tui")
	logger.Infof("Starting TUI against %s", cfg.APIURL)

	app := ui.NewApp(ui.OptionsFromConfig(cfg, newClient(cfg)))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if _, err := os.Stat(configPath); err == nil {
		go func() {
			// The client keeps the API URL it started with.
			err := config.Watch(watchCtx, configPath, func(reloaded *config.Config) {
				p.Send(ui.ConfigReloadedMsg{Config: reloaded})
			})
			if err != nil {
				logger.Warnf("config reload disabled: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
