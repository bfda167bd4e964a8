package assets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/memmaker/collisionpost/engine/util"
	"github.com/pkg/errors"
)

// Watcher reports model files that were created or written in a set of
// directories. A file is reported once no further event for it arrived for
// the debounce duration.
type Watcher struct {
	watcher  *fsnotify.Watcher
	accept   func(path string) bool
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(accept func(path string) bool, debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch")
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}

	watcher := &Watcher{
		watcher:  w,
		accept:   accept,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]*time.Timer)
	settled := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.accept != nil && !w.accept(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(w.debounce)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.debounce, func() {
				select {
				case settled <- name:
				case <-w.closeCh:
				}
			})
		case name := <-settled:
			delete(pending, name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Watch imports model files as they appear in dirs until ctx is done. Files
// the importer wrote itself are skipped; failed imports are logged and do not
// stop the loop.
func (i *Importer) Watch(ctx context.Context, dirs ...string) error {
	w, err := NewWatcher(i.IsModelFile, i.cfg.Watch.Debounce, dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	util.LogWatchInfo(i.logger, fmt.Sprintf("watching %v", dirs))
	ignoreWindow := i.cfg.Watch.Debounce + time.Second
	for {
		select {
		case <-ctx.Done():
			util.LogWatchInfo(i.logger, "watch stopped")
			return nil
		case path := <-w.Events:
			if i.recentlyWritten(path, ignoreWindow) {
				util.LogWatchDebug(i.logger, fmt.Sprintf("skipping own output %s", path))
				continue
			}
			util.LogWatchDebug(i.logger, fmt.Sprintf("change detected: %s", path))
			if _, err := i.ImportFile(path); err != nil {
				util.LogImportError(i.logger, err.Error())
			}
		case err := <-w.Errors:
			util.LogWatchError(i.logger, err.Error())
		}
	}
}
