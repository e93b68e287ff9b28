// Package scanner finds script files below a set of roots.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/util"
)

// FileScanner collects .funscript files from files and directories.
type FileScanner struct {
	roots []string
	ext   string
}

// NewFileScanner creates a scanner over roots. A root may be a directory
// (walked recursively), a script or a video (taken as its paired script).
func NewFileScanner(roots ...string) *FileScanner {
	return &FileScanner{
		roots: roots,
		ext:   model.FunscriptExt,
	}
}

// Scan returns the sorted, de-duplicated script paths. Unreadable entries
// below a directory are skipped; a root that does not exist is an error.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	dirCount, totalCount := 0, 0
	for _, root := range s.roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		if !info.IsDir() {
			totalCount++
			if model.IsVideoPath(root) {
				add(strings.TrimSuffix(root, filepath.Ext(root)) + s.ext)
			} else {
				add(root)
			}
			continue
		}

		util.LogDebug(fmt.Sprintf("Start scanning directory: %s", root))
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				dirCount++
				return nil
			}
			totalCount++
			if strings.EqualFold(filepath.Ext(path), s.ext) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d scripts",
		time.Since(start), dirCount, totalCount, len(files)))
	return files, nil
}
