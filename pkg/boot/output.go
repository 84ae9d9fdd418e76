package boot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultOutput is the build directory relative to the base directory.
const DefaultOutput = "out/build"

// ValidateOutput makes sure rel is a relative path which stays inside the base directory.
func ValidateOutput(rel string) error {
	if rel == "" {
		return eris.New("output path is empty")
	}

	if filepath.IsAbs(rel) || strings.HasPrefix(filepath.ToSlash(rel), "/") {
		return eris.Errorf("output path %s must be relative", rel)
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return eris.New("output path must not be the base directory itself")
	}

	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return eris.Errorf("output path %s leaves the base directory", rel)
	}

	return nil
}

// EnsureDir creates base/rel including any missing parents and returns its absolute path.
// Existing directories and their contents are left alone.
func EnsureDir(base, rel string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(rel))

	err := ValidateOutput(rel)
	if err != nil {
		return "", &FilesystemError{Path: target, Err: err}
	}

	err = os.MkdirAll(target, 0o770)
	if err != nil {
		return "", &FilesystemError{Path: target, Err: err}
	}

	return target, nil
}
