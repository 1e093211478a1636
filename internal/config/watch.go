package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// WatchAlertRules monitors the config file at path and calls onReload with
// the freshly parsed alerts section every time the file is rewritten. Alert
// thresholds are the one piece of config growers adjust while the server is
// running, so only that section is hot-reloaded; everything else still
// requires a restart. Runs until ctx is cancelled.
//
// A rewrite that fails to parse or validate is logged and ignored — the
// rules active before the edit stay in force and onReload is not called.
func WatchAlertRules(ctx context.Context, path string, onReload func(AlertsConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("alert rules: watching config for edits", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors commonly save via rename-into-place, which arrives as
			// a create event rather than a write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("alert rules: rejected config edit, keeping active rules",
					"path", path, "err", err)
				continue
			}

			slog.Info("alert rules: reloaded",
				"path", path, "rules", len(cfg.Alerts.Rules), "webhooks", len(cfg.Alerts.Webhooks))
			onReload(cfg.Alerts)

			// A rename-into-place save replaced the inode; re-arm the watch
			// on the new file.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("alert rules: watcher error", "err", err)
		}
	}
}
