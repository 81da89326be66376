package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// Watcher keeps the index current while the editor is running, feeding
// file-system events into the scheduler.
type Watcher struct {
	ws        *Workspace
	scheduler *Scheduler
	watcher   *fsnotify.Watcher
	log       commonlog.Logger
}

func NewWatcher(ws *Workspace, scheduler *Scheduler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		ws:        ws,
		scheduler: scheduler,
		watcher:   fsw,
		log:       commonlog.GetLogger("index.watcher"),
	}
	if err := w.watchTree(ws.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run dispatches events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := event.Name

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watchTree(path); err != nil {
				w.log.Errorf("failed to watch new directory %s: %v", path, err)
			}
			return
		}
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if w.ws.Contains(path) {
			w.scheduler.Schedule(Task{
				Name:    "forget " + path,
				Execute: func() error { return w.ws.Forget(path) },
			})
		}
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if w.ws.Contains(path) {
			w.scheduler.Schedule(Task{
				Name:    "index " + path,
				Execute: func() error { return w.ws.IndexFile(ctx, path) },
			})
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
