package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/trialsearch/pkg/log"
)

// settleDelay gives editors time to finish writing before the file is read.
var settleDelay = 100 * time.Millisecond

// Watch reloads configPath whenever it changes and hands the new
// configuration to onReload. It blocks until ctx is cancelled. Invalid files
// are logged and skipped so a half-edited config never reaches the caller.
func Watch(ctx context.Context, configPath string, onReload func(*Config)) error {
	logger := log.ForService("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close config watcher: %v", err)
		}
	}()

	if err := watcher.Add(configPath); err != nil {
		return fmt.Errorf("watching %s: %w", configPath, err)
	}
	logger.Debugf("watching config file %s", configPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			logger.Infof("config file changed: %s (%s)", event.Name, event.Op.String())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}

			// Atomic saves replace the inode, so the watch has to be re-added.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file removed and not replaced, keeping current settings")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-add config watch: %v", err)
				}
			}

			cfg, err := LoadConfig(configPath)
			if err != nil {
				logger.Errorf("reloading config: %v", err)
				continue
			}
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("config watcher error: %v", err)
		}
	}
}
