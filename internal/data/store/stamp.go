package store

import (
	"fmt"

	"github.com/penwyp/go-funscripter/internal/util"
)

// ChangeReason tells why a file no longer matches its stamp.
type ChangeReason int

const (
	Unchanged ChangeReason = iota
	ChangeError
	ChangeInode
	ChangeSize
	ChangeModTime
	ChangeFingerprint
	ChangeMissing
)

func (r ChangeReason) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case ChangeError:
		return "error"
	case ChangeInode:
		return "inode"
	case ChangeSize:
		return "size"
	case ChangeModTime:
		return "modtime"
	case ChangeFingerprint:
		return "fingerprint"
	case ChangeMissing:
		return "missing"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Stamp identifies the version of a file the editor last read or wrote.
type Stamp struct {
	Path        string
	Info        util.FileInfo
	Fingerprint string
}

// TakeStamp records the current version of path.
func TakeStamp(path string) (*Stamp, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return nil, err
	}
	fp, err := util.CalculateFileFingerprint(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return &Stamp{Path: path, Info: *info, Fingerprint: fp}, nil
}

// Check compares the file on disk with the stamp. Metadata is compared
// first; the content fingerprint is only read when metadata matches but the
// caller asks for a deep check.
func (s *Stamp) Check(deep bool) ChangeReason {
	current, err := util.GetFileInfo(s.Path)
	if err != nil {
		if exists(s.Path) {
			return ChangeError
		}
		return ChangeMissing
	}

	if current.Inode != s.Info.Inode {
		return ChangeInode
	}
	if current.Size != s.Info.Size {
		return ChangeSize
	}
	if current.ModTime != s.Info.ModTime {
		return ChangeModTime
	}
	if !deep {
		return Unchanged
	}

	fp, err := util.CalculateFileFingerprint(s.Path)
	if err != nil {
		return ChangeError
	}
	if fp != s.Fingerprint {
		return ChangeFingerprint
	}
	return Unchanged
}
