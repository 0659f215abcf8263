package fonts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 500 * time.Millisecond

// Library keeps the current Set and swaps it when the font directory changes.
// Renders that already took a Set keep using it.
type Library struct {
	cfg    Config
	logger *zap.Logger
	cur    atomic.Pointer[Set]
}

// NewLibrary loads the initial Set.
func NewLibrary(cfg Config, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Library{cfg: cfg, logger: logger}
	l.cur.Store(Load(cfg, logger))
	return l
}

// Current returns the Set in effect.
func (l *Library) Current() *Set {
	return l.cur.Load()
}

// Reload parses the configured fonts again and publishes the result.
func (l *Library) Reload() *Set {
	s := Load(l.cfg, l.logger)
	l.cur.Store(s)
	l.logger.Info("fonts reloaded", zap.Bool("fallback", s.Fallback))
	return s
}

// Watch reloads the Set whenever a font file in the configured directory is
// written, created, renamed or removed. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context) error {
	if l.cfg.Dir == "" {
		return fmt.Errorf("no font directory configured")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(l.cfg.Dir); err != nil {
		return fmt.Errorf("failed to watch font dir %s: %w", l.cfg.Dir, err)
	}
	l.logger.Info("watching font directory", zap.String("dir", l.cfg.Dir))

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isFontFile(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			l.Reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("font watcher error", zap.Error(err))
		}
	}
}

func isFontFile(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}
