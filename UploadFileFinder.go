package main

import (
	"errors"
	"os"
	"path/filepath"
)

// skippedFolderNames are folders whose contents never belong in a published
// repository.
var skippedFolderNames = NewSet(".git", ".svn", ".hg")

type UploadFileFinder struct{}

func NewUploadFileFinder() *UploadFileFinder {
	return &UploadFileFinder{}
}

// FindFiles walks the provided folder and returns repo-relative paths
// (slash-normalized) for all regular files no larger than maxFileSizeBytes.
// Version-control metadata folders are skipped entirely; errors on individual
// entries do not abort the walk.
func (finder UploadFileFinder) FindFiles(folderName string, maxFileSizeBytes int64) ([]string, error) {
	if folderName == "" {
		return nil, errors.New("folderName must not be empty")
	}

	info, err := os.Stat(folderName)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("path is not a directory")
	}

	var files []string
	walkErr := filepath.WalkDir(folderName, func(path string, entry os.DirEntry, entryErr error) error {
		if entryErr != nil {
			return nil
		}
		if entry.IsDir() {
			if path != folderName && skippedFolderNames.Contains(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		fileInfo, err := entry.Info()
		if err != nil {
			return nil
		}
		if !fileInfo.Mode().IsRegular() {
			return nil
		}
		if maxFileSizeBytes > 0 && fileInfo.Size() > maxFileSizeBytes {
			return nil
		}
		relPath, err := filepath.Rel(folderName, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}
