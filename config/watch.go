package config

import (
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher keeps a Config current with its file
// A change that fails to load or validate is logged and the previous Config stays in effect
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	current atomic.Pointer[Config]

	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch starts watching path with initial as the current Config
// The parent directory is watched so editors that replace the file by rename are followed
func Watch(path string, initial *Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating config watcher")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	w := &Watcher{
		path:    abs,
		watcher: fsw,
		closeCh: make(chan struct{}),
	}
	w.current.Store(initial)

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Current returns the latest valid Config
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// Close stops watching. Safe to call multiple times
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[CONFIG] watch error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("[CONFIG] reload rejected, keeping previous settings: %v", err)
		return
	}
	w.current.Store(cfg)
	log.Printf("[CONFIG] reloaded %s (difficulty %s)", w.path, cfg.Game.Difficulty)
}
