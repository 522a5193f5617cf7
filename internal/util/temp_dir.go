package util

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

var (
	createTempDirOnce sync.Once
	createTempDirErr  error
	tempDir           string
)

// TempDir returns the process scratch directory, created on first use
func TempDir() (string, error) {
	createTempDirOnce.Do(func() {
		tmp, err := os.MkdirTemp("", "folio-*")
		if err != nil {
			createTempDirErr = errors.WithStack(err)
			return
		}

		tempDir = tmp
	})
	if createTempDirErr != nil {
		return "", errors.WithStack(createTempDirErr)
	}

	return tempDir, nil
}

// WorkDir creates a working directory in the process scratch directory.
// The caller is responsible for removing it.
func WorkDir(pattern string) (string, error) {
	root, err := TempDir()
	if err != nil {
		return "", errors.WithStack(err)
	}

	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return dir, nil
}
