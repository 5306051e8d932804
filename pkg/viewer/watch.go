package viewer

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ModelWatcher reports files in a models directory that were created or
// written. Changes are delivered as base filenames.
type ModelWatcher struct {
	fsnotify *fsnotify.Watcher
	logger   *zap.Logger
	changes  chan string
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewModelWatcher starts watching dir.
func NewModelWatcher(dir string, logger *zap.Logger) (*ModelWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &ModelWatcher{
		fsnotify: fsWatch,
		logger:   logger,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
	}
	w.wg.Go(w.run)
	return w, nil
}

func (w *ModelWatcher) run() {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			select {
			case w.changes <- filepath.Base(e.Name):
			default:
				// The frame loop is behind; it will reload on the queued events.
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch models directory", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// Changes returns the channel of changed filenames.
func (w *ModelWatcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching. It is safe to call more than once.
func (w *ModelWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
		w.wg.Wait()
	})
	return err
}
