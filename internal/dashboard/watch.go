package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce batches bursts of artifact writes (a gate run writes several
// files back to back) into one re-render.
const debounce = 500 * time.Millisecond

// Watch monitors the artifacts directory and calls onChange after each burst
// of writes settles. It runs until ctx is cancelled.
func Watch(ctx context.Context, artifactsDir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(artifactsDir); err != nil {
		return err
	}

	slog.Info("dashboard: watching artifacts", "dir", artifactsDir)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				// Drain a tick that raced in before the Reset, otherwise
				// the next receive fires early.
				if !timer.Stop() {
					select {
					case <-fire:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			slog.Info("dashboard: artifacts changed — re-rendering")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("dashboard: watcher error", "err", err)
		}
	}
}
