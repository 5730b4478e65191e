package events

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lululau/calgrid/internal/calendar"
	appLog "github.com/lululau/calgrid/internal/log"
)

// Watch reloads path whenever it is written or replaced and hands the result
// to onLoad. It blocks until ctx is done. The parent directory is watched so
// editors that save through rename are still seen.
func Watch(ctx context.Context, path string, loc *time.Location, onLoad func([]calendar.Event, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			appLog.Debug("events file changed", "path", abs, "op", event.Op.String())
			onLoad(Load(abs, loc))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Error("events watcher error", err, "path", abs)
		}
	}
}
