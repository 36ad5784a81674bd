// Package fsutil provides file system discovery and exclude matching helpers.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtensions recursively searches the given root path for all
// regular files whose name ends with one of the specified extensions. It
// returns their full paths in filepath.WalkDir's lexical order, which keeps
// discovery order deterministic across runs.
func FindFilesByExtensions(rootPath string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		panic("extensions must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
