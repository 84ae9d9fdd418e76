package boot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Layout describes the directories of a single run. It's computed once and never modified.
type Layout struct {
	// Base is the absolute directory containing the entry point. It's used as the source root.
	Base string
	// Output is the absolute path of the build directory.
	Output string
	// OutputRel is Output relative to Base.
	OutputRel string
}

// executableFunc is replaced in tests
var executableFunc = os.Executable

// EntryPoint returns the path of the running entry point. Binaries built by "go run" live in a
// throwaway build directory; for those the main package's source file is used instead.
func EntryPoint(source string) (string, error) {
	exe, err := executableFunc()
	if err == nil {
		exe, err = filepath.EvalSymlinks(exe)
	}

	if err == nil && !isGoRunBinary(exe) {
		return exe, nil
	}

	if source == "" {
		if err == nil {
			err = eris.New("running from a temporary go build and no source location is available")
		}
		return "", &ResolveError{Entry: exe, Err: err}
	}

	return source, nil
}

func isGoRunBinary(exe string) bool {
	parts := strings.Split(filepath.ToSlash(exe), "/")
	for idx, part := range parts {
		if strings.HasPrefix(part, "go-build") && idx+2 < len(parts) && parts[idx+2] == "exe" {
			return true
		}
	}

	return false
}

// Locate returns the absolute directory containing entry. The result does not depend on the
// current working directory unless entry is relative.
func Locate(entry string) (string, error) {
	if entry == "" {
		return "", &ResolveError{Err: eris.New("empty entry point")}
	}

	absPath, err := filepath.Abs(entry)
	if err != nil {
		return "", &ResolveError{Entry: entry, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", &ResolveError{Entry: absPath, Err: err}
	}

	return filepath.Dir(resolved), nil
}

// Enter makes base the working directory of the process.
func Enter(base string) error {
	info, err := os.Stat(base)
	if err != nil {
		return &ResolveError{Entry: base, Err: err}
	}

	if !info.IsDir() {
		return &ResolveError{Entry: base, Err: eris.Errorf("%s is not a directory", base)}
	}

	err = os.Chdir(base)
	if err != nil {
		return &ResolveError{Entry: base, Err: eris.Wrapf(err, "failed to enter %s", base)}
	}

	return nil
}
