// Package toolchain locates the host C++ toolchain and introspects the
// compiler for its default include search directories.
package toolchain

import (
	"os/exec"
	"path/filepath"
)

// Lookup resolves an executable name against the search path. It is an
// interface so tests can substitute a fake search path.
type Lookup interface {
	// Find returns the path of the named executable as the search path
	// reports it. The result may be relative when the search path
	// contains relative entries.
	Find(name string) (string, error)
	// FindExecutable is the stricter second pass: it accepts only real
	// executable files and returns a canonical absolute path.
	FindExecutable(name string) (string, error)
}

// PathLookup resolves executables against the process PATH.
type PathLookup struct{}

func (PathLookup) Find(name string) (string, error) {
	return exec.LookPath(name)
}

func (PathLookup) FindExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// A dangling symlink is still a usable invocation path.
		return abs, nil
	}
	return resolved, nil
}
