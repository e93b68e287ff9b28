// Package settings holds the persisted editor preferences.
package settings

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/penwyp/go-funscripter/internal/core/constants"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

// Settings are the editor preferences kept between runs.
type Settings struct {
	LastPath         string          `fs:"last_path"`
	LastOpenedFile   string          `fs:"last_opened_file"`
	DrawVideo        bool            `fs:"draw_video"`
	ShowSimulator    bool            `fs:"show_simulator"`
	VideoMode        model.VideoMode `fs:"video_mode,enum"`
	RollingBackup    bool            `fs:"rolling_backup"`
	BackupKeep       int             `fs:"backup_keep"`
	FrameTimeMs      float64         `fs:"frame_time_ms"`
	PasteToleranceMs float64         `fs:"paste_tolerance_ms"`
	MaxUndoEntries   int             `fs:"max_undo_entries"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		DrawVideo:        true,
		ShowSimulator:    true,
		VideoMode:        model.VideoModeFull,
		RollingBackup:    true,
		BackupKeep:       constants.DefaultBackupKeep,
		FrameTimeMs:      constants.DefaultFrameTimeMs,
		PasteToleranceMs: constants.DefaultPasteToleranceMs,
		MaxUndoEntries:   constants.DefaultMaxUndoEntries,
	}
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.VideoMode, validation.By(validVideoMode)),
		validation.Field(&s.BackupKeep, validation.Min(1), validation.Max(1000)),
		validation.Field(&s.FrameTimeMs, validation.Required, validation.Min(1.0), validation.Max(1000.0)),
		validation.Field(&s.PasteToleranceMs, validation.Min(0.0), validation.Max(1000.0)),
		validation.Field(&s.MaxUndoEntries, validation.Min(1)),
	)
}

func validVideoMode(value interface{}) error {
	m, ok := value.(model.VideoMode)
	if !ok || !m.Valid() {
		return errors.New("must be a known video mode")
	}
	return nil
}

// Load reads settings from path (JSON or YAML by extension). A missing file
// yields the defaults. Members absent from the file keep their defaults;
// a file failing validation is rejected in favour of the defaults.
func Load(path string, logger util.LoggerInterface) (*Settings, error) {
	logger = util.OrGlobal(logger)
	s := Default()
	if path == "" {
		return s, nil
	}

	_, err := store.New(logger).LoadDocument(path, s)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug("no settings file, using defaults", util.F("path", path))
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Save validates and writes s to path.
func (s *Settings) Save(path string, logger util.LoggerInterface) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return store.New(logger).SaveDocument(path, s)
}
