package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubiojr/trialsearch/pkg/api"
	"github.com/rubiojr/trialsearch/pkg/log"
	"github.com/urfave/cli/v3"
)

// StubCommand creates the stub command
func StubCommand() *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve the search API from a fixture dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind the stub server to",
				Value: "localhost",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to run the stub server on",
				Value: 8000,
			},
			&cli.StringFlag{
				Name:  "dataset",
				Usage: "JSON dataset to serve instead of the built-in fixtures",
			},
			&cli.DurationFlag{
				Name:  "latency",
				Usage: "Delay added to every API response",
			},
			&cli.StringFlag{
				Name:  "fail-on",
				Usage: "Answer 500 for searches whose query or condition equals this value",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			dataset, err := loadStubDataset(c.String("dataset"))
			if err != nil {
				return err
			}
			opts := api.Options{
				Latency: c.Duration("latency"),
				FailOn:  c.String("fail-on"),
			}
			addr := net.JoinHostPort(c.String("host"), fmt.Sprintf("%d", c.Int("port")))

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveStub(ctx, addr, dataset, opts)
		},
	}
}

func loadStubDataset(path string) (*api.Dataset, error) {
	if path == "" {
		return api.DefaultDataset()
	}
	dataset, err := api.LoadDatasetFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return dataset, nil
}

// serveStub runs the stub server until ctx is cancelled.
func serveStub(ctx context.Context, addr string, dataset *api.Dataset, opts api.Options) error {
	logger := log.ForService("stub")

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(dataset, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting stub server on http://%s serving %d trials", addr, len(dataset.Trials))
		logger.Infof("Available endpoints:")
		logger.Infof("  GET /api/search/{query}")
		logger.Infof("  GET /api/filter")
		logger.Infof("  GET /api/suggest?q=")
		logger.Infof("  GET /api/summary/{query}")
		logger.Infof("  GET /health")
		if opts.Latency > 0 {
			logger.Infof("Adding %s of latency to every response", opts.Latency)
		}

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("stub server failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down stub server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
