package model

import (
	"errors"
	"fmt"
)

// Position bounds of an action.
const (
	MinPos = 0
	MaxPos = 100
)

// ErrInvalidAction is returned for actions outside the valid time or
// position range.
var ErrInvalidAction = errors.New("invalid action")

// Action is one keyframe: a position at a time in milliseconds.
// Actions are identified by At; two actions with the same At are the same
// action.
type Action struct {
	At  int64 `fs:"at"`
	Pos int32 `fs:"pos"`
}

func (a Action) String() string {
	return fmt.Sprintf("{at:%d pos:%d}", a.At, a.Pos)
}

// Less orders actions by time.
func (a Action) Less(b Action) bool {
	return a.At < b.At
}

// Validate rejects negative times and out-of-range positions.
func (a Action) Validate() error {
	if a.At < 0 {
		return fmt.Errorf("%w: negative time %d", ErrInvalidAction, a.At)
	}
	if a.Pos < MinPos || a.Pos > MaxPos {
		return fmt.Errorf("%w: position %d outside [%d, %d]", ErrInvalidAction, a.Pos, MinPos, MaxPos)
	}
	return nil
}

// Clamp returns a with Pos limited to [MinPos, MaxPos].
func (a Action) Clamp() Action {
	a.Pos = ClampPos(a.Pos)
	return a
}

// ClampPos64 limits a widened position, such as a sum that may overflow
// int32, to [MinPos, MaxPos].
func ClampPos64(pos int64) int32 {
	if pos < MinPos {
		return MinPos
	}
	if pos > MaxPos {
		return MaxPos
	}
	return int32(pos)
}

// ClampPos limits pos to [MinPos, MaxPos].
func ClampPos(pos int32) int32 {
	if pos < MinPos {
		return MinPos
	}
	if pos > MaxPos {
		return MaxPos
	}
	return pos
}

// Metadata is the free-form description stored with a script.
type Metadata struct {
	Creator     string   `fs:"creator"`
	Title       string   `fs:"title"`
	Description string   `fs:"description"`
	Tags        []string `fs:"tags"`
	Performers  []string `fs:"performers"`
	VideoURL    string   `fs:"video_url"`
	ScriptURL   string   `fs:"script_url"`
	License     string   `fs:"license"`
	Notes       string   `fs:"notes"`
	Duration    int64    `fs:"duration"` // seconds
}

// Funscript is the persisted script document.
type Funscript struct {
	Version  string   `fs:"version"`
	Inverted bool     `fs:"inverted"`
	Range    int      `fs:"range"`
	Actions  []Action `fs:"actions"`
	Metadata Metadata `fs:"metadata"`
}

// DefaultVersion is written into new scripts.
const DefaultVersion = "1.0"

// NewFunscript returns an empty script with default header values.
func NewFunscript() *Funscript {
	return &Funscript{
		Version: DefaultVersion,
		Range:   MaxPos,
		Actions: []Action{},
		Metadata: Metadata{
			Tags:       []string{},
			Performers: []string{},
		},
	}
}

// FileEvent reports a change to a watched file.
type FileEvent struct {
	Path      string
	Operation string
}

// File event operations
const (
	FileWritten = "write"
	FileCreated = "create"
	FileRemoved = "remove"
	FileRenamed = "rename"
)
