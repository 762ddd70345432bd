package serve

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch calls fn once per burst of markdown changes in dirs, after the
// burst has been quiet for debounce. Missing dirs are created. It blocks
// until ctx is cancelled.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
		if err := watcher.Add(d); err != nil {
			return err
		}
	}

	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".md" || event.Op == fsnotify.Chmod {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("digest change")
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}
