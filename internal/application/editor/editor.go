// Package editor is the application core: it ties the timeline, its undo
// history, the heatmap cache and persistence to a playback clock.
//
// An Editor is owned by one goroutine. Other goroutines hand work to it
// with Post; the owner applies that work with Pump.
package editor

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/penwyp/go-funscripter/internal/core/constants"
	"github.com/penwyp/go-funscripter/internal/core/heatmap"
	"github.com/penwyp/go-funscripter/internal/core/history"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/core/timeline"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

// ErrNoPath is returned when saving a script that was never opened or named.
var ErrNoPath = errors.New("no script path")

// Undo labels
const (
	LabelAddEdit        = "Add/Edit action"
	LabelRemoveAction   = "Remove action"
	LabelRemoveSelected = "Removed selection"
	LabelCut            = "Cut selection"
	LabelPaste          = "Paste copied actions"
	LabelMoveSelection  = "Selection moved"
	LabelTopOnly        = "Top points only"
	LabelBottomOnly     = "Bottom points only"
)

// Editor is the context object shared by every editing operation.
type Editor struct {
	logger       util.LoggerInterface
	settings     *settings.Settings
	settingsPath string
	store        *store.Store
	backup       *store.Backup
	clock        Clock

	script    *model.Funscript
	timeline  *timeline.Timeline
	history   *history.Log
	heat      *heatmap.Cache
	clipboard []model.Action
	videoPath string

	stamp          *store.Stamp
	dirty          bool
	externalChange bool

	events chan Event
}

// Option configures an Editor.
type Option func(*Editor)

func WithLogger(l util.LoggerInterface) Option {
	return func(e *Editor) { e.logger = l }
}

func WithClock(c Clock) Option {
	return func(e *Editor) { e.clock = c }
}

// WithSettings uses s; when path is set, Open records the opened file there.
func WithSettings(s *settings.Settings, path string) Option {
	return func(e *Editor) {
		e.settings = s
		e.settingsPath = path
	}
}

// New creates an editor with an empty, unnamed script.
func New(opts ...Option) *Editor {
	e := &Editor{
		events: make(chan Event, constants.EventQueueSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = util.OrGlobal(e.logger)
	if e.settings == nil {
		e.settings = settings.Default()
	}
	if e.clock == nil {
		e.clock = NewManualClock(0, e.settings.FrameTimeMs)
	}
	e.store = store.New(e.logger)
	e.backup = store.NewBackup(e.settings.BackupKeep)

	e.script = model.NewFunscript()
	e.timeline = timeline.New()
	e.history = history.New(e.timeline, history.WithMaxEntries(e.settings.MaxUndoEntries))
	e.heat = heatmap.NewCache(e.timeline)
	return e
}

func (e *Editor) Timeline() *timeline.Timeline { return e.timeline }
func (e *Editor) History() *history.Log        { return e.history }
func (e *Editor) Clock() Clock                 { return e.clock }
func (e *Editor) Settings() *settings.Settings { return e.settings }
func (e *Editor) Script() *model.Funscript     { return e.script }
func (e *Editor) VideoPath() string            { return e.videoPath }

// Dirty reports unsaved edits.
func (e *Editor) Dirty() bool { return e.dirty }

// ExternalChange reports whether the open script changed on disk since it
// was loaded or saved.
func (e *Editor) ExternalChange() bool { return e.externalChange }

// Clipboard returns a copy of the copied actions.
func (e *Editor) Clipboard() []model.Action {
	return append([]model.Action(nil), e.clipboard...)
}

func (e *Editor) cursor() float64 { return e.clock.CurrentPositionMs() }

func (e *Editor) frameTime() float64 {
	if ft := e.clock.FrameTimeMs(); ft > 0 {
		return ft
	}
	return e.settings.FrameTimeMs
}

func (e *Editor) pasteTolerance() float64 {
	if e.settings.PasteToleranceMs > 0 {
		return e.settings.PasteToleranceMs
	}
	return e.frameTime()
}

func (e *Editor) seek(ms float64) {
	if s, ok := e.clock.(Seeker); ok {
		s.Seek(ms)
	}
}

func (e *Editor) snapshot(label string) {
	e.history.Snapshot(label)
	e.dirty = true
}

// Open loads a script, or the script paired with a video. A missing script
// is not an error: the editor starts empty with that path, and false is
// returned. History is cleared either way.
func (e *Editor) Open(file string) (bool, error) {
	scriptPath, videoPath := store.PairPaths(file)
	if videoPath == "" {
		e.logger.Warn("no video found", util.F("script", scriptPath))
	}

	script, rep, err := e.store.LoadFunscript(scriptPath)
	found := true
	switch {
	case errors.Is(err, store.ErrNotFound):
		e.logger.Warn("couldn't find funscript", util.F("path", scriptPath))
		script, found, err = model.NewFunscript(), false, nil
	case err != nil && script == nil:
		return false, err
	case err != nil:
		// Keep what could be read.
		e.logger.Error("funscript partially loaded", util.F("path", scriptPath), util.F("error", err.Error()))
	}

	e.script = script
	e.timeline.ReplaceActions(script.Actions)
	e.timeline.ClearSelection()
	e.timeline.SetPath(scriptPath)
	e.history.ClearHistory()
	e.heat.Invalidate()
	e.videoPath = videoPath
	e.dirty = false
	e.externalChange = false
	e.stamp = nil
	if found {
		if st, serr := store.TakeStamp(scriptPath); serr == nil {
			e.stamp = st
		}
	}
	if len(rep.Missing) > 0 {
		e.logger.Debug("funscript fields missing", util.F("fields", rep.Missing))
	}

	e.rememberOpened(file)
	return found, err
}

func (e *Editor) rememberOpened(file string) {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	e.settings.LastOpenedFile = file
	e.settings.LastPath = filepath.Dir(file)
	if e.settingsPath == "" {
		return
	}
	if err := e.settings.Save(e.settingsPath, e.logger); err != nil {
		e.logger.Warn("failed to save settings", util.F("error", err.Error()))
	}
}

// Save writes the script to path, or to its current path when path is "".
// With rolling backups enabled the previous file is backed up first.
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.timeline.Path()
	}
	if path == "" {
		return ErrNoPath
	}

	if e.settings.RollingBackup {
		if target, err := e.backup.Rotate(path); err != nil {
			e.logger.Warn("backup failed", util.F("path", path), util.F("error", err.Error()))
		} else if target != "" {
			e.logger.Debug("backup written", util.F("path", target))
		}
	}

	e.script.Actions = e.timeline.Actions()
	stamp, err := e.store.SaveFunscript(path, e.script)
	if err != nil {
		return fmt.Errorf("save script: %w", err)
	}
	e.timeline.SetPath(path)
	e.stamp = stamp
	e.dirty = false
	e.externalChange = false
	e.logger.Info("script saved", util.F("path", path), util.F("actions", e.timeline.Len()))
	return nil
}

// Heatmap returns the gradient for the clock's duration, or for the span of
// the actions when the duration is unknown.
func (e *Editor) Heatmap() *heatmap.Gradient {
	duration := e.clock.DurationMs()
	if duration <= 0 {
		if actions := e.timeline.Actions(); len(actions) > 0 {
			duration = float64(actions[len(actions)-1].At)
		}
	}
	return e.heat.Gradient(duration)
}

// AddEditAction sets pos at the cursor: the action within a frame of the
// cursor is edited, otherwise a new one is added.
func (e *Editor) AddEditAction(pos int32) (model.Action, bool) {
	if existing, ok := e.timeline.GetActionAtTime(e.cursor(), e.frameTime()); ok {
		e.snapshot(LabelAddEdit)
		e.timeline.AddOrUpdateAction(existing.At, pos)
		return model.Action{At: existing.At, Pos: model.ClampPos(pos)}, true
	}
	at := int64(math.Round(e.cursor()))
	if at < 0 {
		return model.Action{}, false
	}
	e.snapshot(LabelAddEdit)
	e.timeline.AddOrUpdateAction(at, pos)
	return model.Action{At: at, Pos: model.ClampPos(pos)}, true
}

// RemoveAction removes the selection, or the action within a frame of the
// cursor when nothing is selected.
func (e *Editor) RemoveAction() int {
	if e.timeline.HasSelection() {
		e.snapshot(LabelRemoveSelected)
		return e.timeline.RemoveSelectedActions()
	}
	a, ok := e.timeline.GetActionAtTime(e.cursor(), e.frameTime())
	if !ok {
		return 0
	}
	e.snapshot(LabelRemoveAction)
	e.timeline.RemoveAction(a)
	return 1
}

// Copy puts the selection on the clipboard.
func (e *Editor) Copy() int {
	if !e.timeline.HasSelection() {
		return 0
	}
	e.clipboard = e.timeline.Selection()
	return len(e.clipboard)
}

// Cut copies and removes the selection.
func (e *Editor) Cut() int {
	if e.Copy() == 0 {
		return 0
	}
	e.snapshot(LabelCut)
	return e.timeline.RemoveSelectedActions()
}

// Paste inserts the clipboard so that its first action lands on the
// cursor, then moves the cursor to the last pasted action.
func (e *Editor) Paste() int {
	if len(e.clipboard) == 0 {
		return 0
	}
	e.snapshot(LabelPaste)
	offset := int64(math.Round(e.cursor())) - e.clipboard[0].At
	pasted := 0
	for _, a := range e.clipboard {
		if e.timeline.PasteAction(model.Action{At: a.At + offset, Pos: a.Pos}, e.pasteTolerance()) {
			pasted++
		}
	}
	e.seek(float64(e.clipboard[len(e.clipboard)-1].At + offset))
	return pasted
}

// MoveSelectionTime shifts the selection by whole frames.
func (e *Editor) MoveSelectionTime(frames int) int64 {
	if !e.timeline.HasSelection() || frames == 0 {
		return 0
	}
	e.snapshot(LabelMoveSelection)
	return e.timeline.MoveSelectionTime(int64(math.Round(float64(frames) * e.frameTime())))
}

// MoveSelectionPosition shifts the selected positions by delta.
func (e *Editor) MoveSelectionPosition(delta int32) int {
	if !e.timeline.HasSelection() || delta == 0 {
		return 0
	}
	e.snapshot(LabelMoveSelection)
	return e.timeline.MoveSelectionPosition(delta)
}

// SelectTopOnly narrows the selection to its local maxima.
func (e *Editor) SelectTopOnly() int {
	if !e.timeline.HasSelection() {
		return 0
	}
	e.snapshot(LabelTopOnly)
	return e.timeline.SelectTopActions()
}

// SelectBottomOnly narrows the selection to its local minima.
func (e *Editor) SelectBottomOnly() int {
	if !e.timeline.HasSelection() {
		return 0
	}
	e.snapshot(LabelBottomOnly)
	return e.timeline.SelectBottomActions()
}

func (e *Editor) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	e.dirty = true
	return true
}

func (e *Editor) Redo() bool {
	if !e.history.Redo() {
		return false
	}
	e.dirty = true
	return true
}

// UndoTo undoes up to and including the entry with id.
func (e *Editor) UndoTo(id uuid.UUID) int {
	n := e.history.UndoTo(id)
	if n > 0 {
		e.dirty = true
	}
	return n
}

// JumpPrevAction moves the cursor to the action before the previous frame.
func (e *Editor) JumpPrevAction() (model.Action, bool) {
	a, ok := e.timeline.GetPreviousActionBehind(e.cursor() - e.frameTime())
	if ok {
		e.seek(float64(a.At))
	}
	return a, ok
}

// JumpNextAction moves the cursor to the action after the next frame.
func (e *Editor) JumpNextAction() (model.Action, bool) {
	a, ok := e.timeline.GetNextActionAhead(e.cursor() + e.frameTime())
	if ok {
		e.seek(float64(a.At))
	}
	return a, ok
}

// Stats describes the stroke at the cursor.
func (e *Editor) Stats() timeline.Stats {
	return e.timeline.StatsAt(e.cursor())
}
