package upload

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles expands the glob patterns and returns matching regular files,
// skipping any whose base name appears in exclude.
func FindFiles(patterns []string, exclude ...string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range matches {
			if excluded[filepath.Base(name)] {
				continue
			}
			info, err := os.Lstat(name)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				files = append(files, name)
			}
		}
	}
	return files, nil
}

// FindInPaths looks for a file with the given name in each directory in
// order and returns the first hit, or "" when none contains it.
func FindInPaths(name string, dirs []string) string {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
