package editor

import (
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

// Event is work handed to the editor from another goroutine.
type Event interface {
	apply(e *Editor) error
}

// OpenEvent carries the result of a file-open dialog.
type OpenEvent struct {
	Path string
}

func (ev OpenEvent) apply(e *Editor) error {
	_, err := e.Open(ev.Path)
	return err
}

// SaveEvent carries the result of a save-as dialog.
type SaveEvent struct {
	Path string
}

func (ev SaveEvent) apply(e *Editor) error {
	return e.Save(ev.Path)
}

// FileChangedEvent reports a change to the open script by another program.
type FileChangedEvent struct {
	model.FileEvent
}

func (ev FileChangedEvent) apply(e *Editor) error {
	if e.timeline.Path() == "" || ev.Path != e.timeline.Path() {
		return nil
	}
	if e.stamp != nil {
		reason := e.stamp.Check(true)
		if reason == store.Unchanged {
			// Our own save.
			return nil
		}
		e.logger.Info("script changed on disk",
			util.F("path", ev.Path),
			util.F("operation", ev.Operation),
			util.F("reason", reason.String()))
	}
	e.externalChange = true
	return nil
}

// Post queues ev for the editor goroutine. It is safe to call from any
// goroutine and reports false when the queue is full.
func (e *Editor) Post(ev Event) bool {
	select {
	case e.events <- ev:
		return true
	default:
		e.logger.Warn("event queue full, dropping event")
		return false
	}
}

// Pump applies queued events. Call it from the goroutine owning the
// editor, once per loop iteration. It returns how many events were applied.
func (e *Editor) Pump() int {
	applied := 0
	for {
		select {
		case ev := <-e.events:
			if err := ev.apply(e); err != nil {
				e.logger.Error("event failed", util.F("error", err.Error()))
			}
			applied++
		default:
			return applied
		}
	}
}
