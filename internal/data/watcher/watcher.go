// Package watcher reports changes made to an open script by other programs.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/util"
)

// FileWatcher watches the directories of a set of files and emits events
// for those files only. Editors that save through a rename replace the
// file, so the directory is watched rather than the file itself.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	logger  util.LoggerInterface
	files   map[string]struct{}
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewFileWatcher starts watching paths.
func NewFileWatcher(paths []string, logger util.LoggerInterface) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		logger:  util.OrGlobal(logger),
		files:   make(map[string]struct{}, len(paths)),
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	fw.wg.Add(1)
	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()
	defer close(fw.events)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if _, watched := fw.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			op := operation(event.Op)
			if op == "" {
				continue
			}
			select {
			case fw.events <- model.FileEvent{Path: event.Name, Operation: op}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			fw.logger.Error("File monitoring error", util.F("error", err.Error()))

		case <-fw.done:
			return
		}
	}
}

func operation(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return model.FileRemoved
	case op.Has(fsnotify.Rename):
		return model.FileRenamed
	case op.Has(fsnotify.Create):
		return model.FileCreated
	case op.Has(fsnotify.Write):
		return model.FileWritten
	}
	return ""
}

// Events delivers changes until Close. The channel is closed afterwards.
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching and waits for the event loop to exit.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}
