package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	fsw     *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching the config file at path. The parent directory is
// watched so editors that replace the file atomically are seen too. Each
// burst of events produces one reload; files that fail to load are logged
// and skipped.
func Watch(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = ConfigPath()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		fsw:     fsw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run(path, logger)
	return w, nil
}

// Updates delivers reloaded configs. It is closed by Close.
func (w *Watcher) Updates() <-chan *Config { return w.updates }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(path string, logger *slog.Logger) {
	var (
		mu     sync.Mutex
		timer  *time.Timer
		closed bool
	)
	defer func() {
		mu.Lock()
		closed = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		close(w.updates)
	}()

	name := filepath.Clean(path)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				cfg, err := LoadFrom(path)
				if err != nil {
					logger.Warn("config: reload failed", "path", path, "error", err)
					return
				}

				mu.Lock()
				defer mu.Unlock()
				if closed {
					return
				}
				// Keep only the newest config.
				select {
				case <-w.updates:
				default:
				}
				select {
				case w.updates <- cfg:
				default:
				}
			})
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config: watch error", "error", err)
		}
	}
}
