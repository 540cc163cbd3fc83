package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadDebounce coalesces the bursts of events editors produce on save.
const ReloadDebounce = 200 * time.Millisecond

// Watch reloads filename whenever it changes and passes the new
// configuration to onChange until ctx is cancelled. The parent directory is
// watched so that files replaced by rename are picked up. A file that fails
// to load is logged and the previous configuration stays in effect.
func Watch(ctx context.Context, filename string, logger *zap.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("config: watching", zap.String("file", target))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(ReloadDebounce)
			fire = timer.C
			return
		}
		timer.Reset(ReloadDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("config: watcher stopped")
			return nil

		case <-fire:
			cfg, err := Load(target)
			if err != nil {
				logger.Warn("config: reload failed", zap.String("file", target), zap.Error(err))
				continue
			}
			logger.Info("config: reloaded", zap.String("file", target))
			onChange(cfg)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config: watcher error", zap.Error(watchErr))
		}
	}
}
