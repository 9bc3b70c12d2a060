package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 2 * time.Second

// Watcher calls onChange once a burst of image file changes in dirs has
// been quiet for the debounce period.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	onChange func(context.Context) error
	log      *zap.Logger
	ready    chan struct{}
}

func NewWatcher(dirs []string, debounce time.Duration, onChange func(context.Context) error, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:     dirs,
		debounce: debounce,
		onChange: onChange,
		log:      log.Named("watch"),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the directories are being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := 0
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			w.log.Warn("cannot watch folder", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
		w.log.Info("watching folder", zap.String("dir", dir))
	}
	if watched == 0 {
		return errors.New("no image folder could be watched")
	}
	close(w.ready)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug("image change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("change handler failed", zap.Error(err))
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !IsImage(ev.Name) {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Remove) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Write)
}
