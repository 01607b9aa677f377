package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch monitors the config file at path and invokes onChange with the
// freshly loaded Config whenever it is rewritten. Editors and deploy tools
// often replace files instead of writing in place, so the parent directory is
// watched and events are filtered by name. Watch returns after the watcher is
// installed; it stops when ctx is canceled.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				name, _ := filepath.Abs(evt.Name)
				if name != abs {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					log.Warn().Err(err).Str("path", abs).Msg("config reload failed; keeping previous settings")
					continue
				}
				log.Info().Str("path", abs).Msg("config reloaded")
				onChange(cfg)
			case err := <-watcher.Errors:
				log.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()
	return watcher.Add(filepath.Dir(abs))
}
