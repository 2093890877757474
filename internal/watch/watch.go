package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nikmy/agenda/pkg/errors"
	"github.com/nikmy/agenda/pkg/logger"
)

const defaultDebounce = 200 * time.Millisecond

func New(log logger.Logger, path string, onChange func(ctx context.Context) error) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: defaultDebounce,
		log:      log.With("watch"),
	}
}

// Watcher calls onChange every time the file at path is written or
// recreated. Bursts of events closer than the debounce window
// result in a single call.
type Watcher struct {
	path     string
	onChange func(ctx context.Context) error
	debounce time.Duration

	log logger.Logger
}

// Run calls onChange once and then on every change until ctx is done.
// Errors returned by onChange are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapFail(err, "create fs watcher")
	}
	defer func() { _ = fw.Close() }()

	// editors often replace the file, so the directory is watched instead
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return errors.WrapFailf(err, "watch %s", dir)
	}

	w.fire(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.Fail("read fs events: channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debugf("%s: %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.Fail("read fs errors: channel closed")
			}
			w.log.Warn(errors.WrapFail(err, "watch "+w.path))
		case <-timer.C:
			w.fire(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) fire(ctx context.Context) {
	err := w.onChange(ctx)
	if err != nil {
		w.log.Error(errors.WrapFailf(err, "handle change of %s", w.path))
	}
}
