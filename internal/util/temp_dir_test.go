package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestWorkDir(t *testing.T) {
	root, err := TempDir()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	dir, err := WorkDir("test-*")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer os.RemoveAll(dir)

	if e, g := root, filepath.Dir(dir); e != g {
		t.Errorf("filepath.Dir(dir): expected '%v', got '%v'", e, g)
	}

	other, err := WorkDir("test-*")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer os.RemoveAll(other)

	if dir == other {
		t.Errorf("expected distinct work directories, got '%s' twice", dir)
	}
}
