package util

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileInfo identifies one on-disk version of a file: modification time,
// size and inode. Two equal FileInfo values mean nothing replaced the file.
type FileInfo struct {
	ModTime int64  // Last modification time, nanoseconds since epoch
	Size    int64  // File size in bytes
	Inode   uint64 // Changes when an editor saves via rename
}

// GetFileInfo stats path. Supported on Linux and macOS.
func GetFileInfo(path string) (*FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileInfo{
		ModTime: st.Mtim.Nano(),
		Size:    st.Size,
		Inode:   uint64(st.Ino),
	}, nil
}

// Same reports whether both values describe the same file version.
func (fi *FileInfo) Same(other *FileInfo) bool {
	if fi == nil || other == nil {
		return fi == other
	}
	return *fi == *other
}
