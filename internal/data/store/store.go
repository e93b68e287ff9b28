// Package store reads and writes scripts and other documents on disk.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/serializer"
	"github.com/penwyp/go-funscripter/internal/util"
)

// ErrNotFound is returned when a file to load does not exist.
var ErrNotFound = errors.New("file not found")

// Store loads and saves documents through the reflective serializer.
type Store struct {
	logger util.LoggerInterface
	ser    *serializer.Serializer
}

// New creates a Store logging to logger (the global logger when nil).
func New(logger util.LoggerInterface) *Store {
	logger = util.OrGlobal(logger)
	return &Store{
		logger: logger,
		ser:    serializer.New(serializer.WithLogger(logger)),
	}
}

// LoadFunscript reads a script. When the document is readable but parts of
// it have the wrong shape, the partially loaded script is returned together
// with the error.
func (s *Store) LoadFunscript(path string) (*model.Funscript, serializer.Report, error) {
	var rep serializer.Report
	data, err := readFile(path)
	if err != nil {
		return nil, rep, err
	}

	n, err := document.DecodeJSON(data)
	if err != nil {
		return nil, rep, fmt.Errorf("parse %s: %w", path, err)
	}

	script := model.NewFunscript()
	rep, err = s.ser.DeserializeReport(script, n)
	if err != nil {
		s.logger.Warn("script loaded with errors", util.F("path", path), util.F("error", err.Error()))
		return script, rep, fmt.Errorf("load %s: %w", path, err)
	}
	s.logger.Debug("script loaded",
		util.F("path", path),
		util.F("actions", len(script.Actions)),
		util.F("missing", len(rep.Missing)))
	return script, rep, nil
}

// SaveFunscript writes script as indented JSON, replacing path atomically,
// and returns the stamp of the written file.
func (s *Store) SaveFunscript(path string, script *model.Funscript) (*Stamp, error) {
	n, err := s.ser.Serialize(script)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", path, err)
	}
	data, err := document.EncodeJSON(n, true)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return nil, err
	}
	s.logger.Debug("script saved", util.F("path", path), util.F("actions", len(script.Actions)))
	return TakeStamp(path)
}

// LoadDocument fills v from path, choosing the codec by file extension.
func (s *Store) LoadDocument(path string, v interface{}) (serializer.Report, error) {
	var rep serializer.Report
	codec, err := document.CodecForPath(path)
	if err != nil {
		return rep, err
	}
	data, err := readFile(path)
	if err != nil {
		return rep, err
	}
	n, err := codec.Decode(data)
	if err != nil {
		return rep, fmt.Errorf("parse %s: %w", path, err)
	}
	rep, err = s.ser.DeserializeReport(v, n)
	if err != nil {
		return rep, fmt.Errorf("load %s: %w", path, err)
	}
	return rep, nil
}

// SaveDocument writes v to path, choosing the codec by file extension.
func (s *Store) SaveDocument(path string, v interface{}) error {
	codec, err := document.CodecForPath(path)
	if err != nil {
		return err
	}
	n, err := s.ser.Serialize(v)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}
	data, err := codec.Encode(n)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteFileAtomic(path, data)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
