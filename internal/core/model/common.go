package model

import "strings"

// File extensions
const (
	FunscriptExt = ".funscript"
)

// SupportedVideoExtensions lists the video containers a script is paired
// with, in lookup order.
var SupportedVideoExtensions = []string{".mp4", ".mkv", ".webm", ".wmv", ".avi", ".m4v"}

// IsVideoPath reports whether path has one of the supported video extensions.
func IsVideoPath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range SupportedVideoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// VideoMode selects which part of the video frame is shown.
type VideoMode int32

const (
	VideoModeFull VideoMode = iota
	VideoModeLeftPane
	VideoModeRightPane
	VideoModeTopPane
	VideoModeBottomPane
	VideoModeVR
)

var videoModeNames = []string{"full", "left", "right", "top", "bottom", "vr"}

func (m VideoMode) Valid() bool {
	return m >= VideoModeFull && m <= VideoModeVR
}

func (m VideoMode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return videoModeNames[m]
}

// ParseVideoMode accepts the names printed by String.
func ParseVideoMode(s string) (VideoMode, bool) {
	for i, name := range videoModeNames {
		if strings.EqualFold(s, name) {
			return VideoMode(i), true
		}
	}
	return VideoModeFull, false
}
