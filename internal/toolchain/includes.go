package toolchain

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// IncludePathResult is what include-path introspection produces: the
// resolved compiler path and the compiler's default include search
// directories, in the order the compiler printed them. An empty list is
// a valid result; callers must tolerate it.
type IncludePathResult struct {
	CompilerPath string
	IncludePaths []string
}

// The verbose preprocessor output brackets the system include list with
// two marker lines. Both markers are matched with the same tolerant
// strategy: case-insensitive, surrounding whitespace ignored, trailing
// punctuation optional.
var (
	includeListStart = regexp.MustCompile(`(?i)^\s*#include\s+<\.\.\.>\s+search\s+starts\s+here[:.]?\s*$`)
	includeListEnd   = regexp.MustCompile(`(?i)^\s*end\s+of\s+search\s+list[:.]?\s*$`)

	// Root-anchored or drive-letter-rooted.
	absolutePath = regexp.MustCompile(`^(?:[A-Za-z]:[\\/]|/)`)
)

// Resolver detects a compiler's default include search path by running
// it in preprocess-only verbose mode and scanning the marked region of
// its output. Every failure mode degrades to an empty include list plus
// a diagnostic; Resolve never fails hard, because workspace generation
// must still complete with whatever was detected.
type Resolver struct {
	Lookup Lookup
	Runner Runner
	// Logf receives diagnostics; defaults to stderr.
	Logf func(format string, args ...any)
	// Verbose additionally reports lines skipped inside the region.
	Verbose bool

	// stat is swappable for tests.
	stat func(string) (os.FileInfo, error)
}

// NewResolver returns a Resolver backed by the real search path and
// process runner.
func NewResolver() *Resolver {
	return &Resolver{Lookup: PathLookup{}, Runner: ExecRunner{}}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func (r *Resolver) statFn() func(string) (os.FileInfo, error) {
	if r.stat != nil {
		return r.stat
	}
	return os.Stat
}

// Resolve locates compilerName on the search path, runs it with
// preprocess-only verbose flags against empty input, and parses the
// include search list from the combined output.
//
// When the executable cannot be found at all, the literal command name
// is reported as the compiler path and introspection is skipped.
func (r *Resolver) Resolve(ctx context.Context, compilerName string) IncludePathResult {
	path, err := r.Lookup.Find(compilerName)
	if err == nil {
		// Prefer the canonical executable path: the loose lookup can
		// surface relative entries, and distro compilers usually sit
		// behind a versioned symlink (g++ -> g++-12). The canonical
		// path also keys the disk cache, so Put and Get must agree.
		if strict, strictErr := r.Lookup.FindExecutable(compilerName); strictErr == nil {
			path = strict
		}
	}
	if err != nil {
		r.logf("warning: %s not found on the search path; include paths will not be detected", compilerName)
		return IncludePathResult{CompilerPath: compilerName}
	}

	result := IncludePathResult{CompilerPath: path}

	// Preprocess only, C++ language mode, verbose, read stdin ("-").
	lines, runErr := r.Runner.Run(ctx, path, "-E", "-x", "c++", "-v", "-")
	if runErr != nil {
		r.logf("warning: %s introspection failed (%v); include paths will not be detected", compilerName, runErr)
		return result
	}

	result.IncludePaths = r.parseIncludeList(lines)
	if len(result.IncludePaths) == 0 {
		r.logf("warning: could not parse include paths from %s output", compilerName)
	}
	return result
}

// regionState tracks where the scanner is relative to the marked
// include list.
type regionState int

const (
	beforeRegion regionState = iota
	inRegion
	afterRegion
)

// parseIncludeList scans the introspection output for the marked
// region and returns the normalized directories found inside it.
func (r *Resolver) parseIncludeList(lines []string) []string {
	stat := r.statFn()
	var paths []string
	state := beforeRegion

	for _, raw := range lines {
		line := strings.TrimSpace(norm.NFC.String(raw))
		switch state {
		case beforeRegion:
			if includeListStart.MatchString(line) {
				state = inRegion
			}
		case inRegion:
			if includeListEnd.MatchString(line) {
				state = afterRegion
				break
			}
			if !absolutePath.MatchString(line) {
				if r.Verbose {
					r.logf("skipping non-path line in include list: %q", line)
				}
				continue
			}
			info, err := stat(line)
			if err != nil || !info.IsDir() {
				if r.Verbose {
					r.logf("skipping missing include directory: %q", line)
				}
				continue
			}
			paths = append(paths, strings.ReplaceAll(line, `\`, "/")+"/**")
		}
		if state == afterRegion {
			break
		}
	}
	return paths
}
