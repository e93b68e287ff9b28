package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-funscripter/internal/core/constants"
)

// Backup keeps rolling copies of a script in a backup directory next to it.
type Backup struct {
	// Keep is how many copies per script survive a rotation.
	Keep int
	now  func() time.Time
}

// NewBackup creates a Backup keeping keep copies per script.
func NewBackup(keep int) *Backup {
	if keep < 1 {
		keep = constants.DefaultBackupKeep
	}
	return &Backup{Keep: keep, now: time.Now}
}

// Dir is where backups of path are written.
func (b *Backup) Dir(path string) string {
	return filepath.Join(filepath.Dir(path), constants.BackupDirName)
}

// Rotate copies the current content of path into the backup directory and
// removes the oldest copies beyond Keep. It returns the new backup path, or
// "" when path does not exist yet.
func (b *Backup) Rotate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s for backup: %w", path, err)
	}

	dir := b.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	stem := backupStem(path)
	name := fmt.Sprintf("%s.%s%s", stem, b.now().Format(constants.BackupTimestampForm), filepath.Ext(path))
	target := filepath.Join(dir, name)
	if err := WriteFileAtomic(target, data); err != nil {
		return "", err
	}

	if err := b.cleanupOld(dir, stem, filepath.Ext(path)); err != nil {
		return target, fmt.Errorf("cleanup old backups: %w", err)
	}
	return target, nil
}

// List returns the backups of path, oldest first.
func (b *Backup) List(path string) ([]string, error) {
	return b.list(b.Dir(path), backupStem(path), filepath.Ext(path))
}

func (b *Backup) list(dir, stem, ext string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, globEscape(stem)+".*"+ext))
	if err != nil {
		return nil, err
	}
	// The glob also matches scripts named stem.<anything>; keep only names
	// whose middle segment is a backup timestamp.
	var files []string
	for _, f := range matches {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(f), stem+"."), ext)
		if _, err := time.Parse(constants.BackupTimestampForm, stamp); err == nil {
			files = append(files, f)
		}
	}
	// The timestamp format sorts chronologically.
	sort.Strings(files)
	return files, nil
}

func (b *Backup) cleanupOld(dir, stem, ext string) error {
	files, err := b.list(dir, stem, ext)
	if err != nil {
		return err
	}
	if len(files) <= b.Keep {
		return nil
	}
	for i := 0; i < len(files)-b.Keep; i++ {
		if err := os.Remove(files[i]); err != nil {
			return fmt.Errorf("remove %s: %w", files[i], err)
		}
	}
	return nil
}

func backupStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func globEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
