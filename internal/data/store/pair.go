package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-funscripter/internal/core/model"
)

// PairPaths derives the script and video paths from either one. For a
// script the first existing sibling video is returned (or ""); for any
// other file the path is taken as the video and the script sits next to it.
func PairPaths(file string) (scriptPath, videoPath string) {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if strings.EqualFold(filepath.Ext(file), model.FunscriptExt) {
		for _, ext := range model.SupportedVideoExtensions {
			candidate := base + ext
			if isRegular(candidate) {
				return file, candidate
			}
		}
		return file, ""
	}
	return base + model.FunscriptExt, file
}

func isRegular(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
