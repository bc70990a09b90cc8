// Package discovery finds shell test files by extension.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"shelltest/internal/logger"
)

// IsTestFile reports whether path names a regular file whose extension
// (the text after the last dot) is one of exts.
func IsTestFile(path string, exts []string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return hasExt(path, exts)
}

func hasExt(path string, exts []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ext != "" && slices.Contains(exts, ext)
}

// Find expands paths into test files. Directories are walked recursively in
// lexical order; files that do not carry a recognized extension are skipped.
// A path that does not exist is an error. No paths means the current directory.
func Find(paths []string, exts []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var found []string
	for _, path := range paths {
		logger.Debug("searching for tests", "path", path)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read test path: %w", err)
		}

		if !info.IsDir() {
			if IsTestFile(path, exts) {
				found = append(found, path)
			} else {
				logger.Debug("skipping file without test extension", "path", path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && hasExt(p, exts) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}
	return found, nil
}
