package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultIntrospectTimeout bounds a single introspection invocation.
// The compiler runs in preprocess-only mode against empty input, so it
// should exit in well under a second; the timeout guards against a
// wedged binary hanging the caller.
const DefaultIntrospectTimeout = 10 * time.Second

// Runner executes a process and captures stdout and stderr merged into
// one ordered sequence of lines, reporting the exit status as an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// ExecRunner runs processes via os/exec with closed stdin.
type ExecRunner struct {
	// Timeout bounds each invocation; zero means DefaultIntrospectTimeout.
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultIntrospectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	// Empty stdin: the compiler must not block waiting for input.
	cmd.Stdin = strings.NewReader("")
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	runErr := cmd.Run()
	lines := splitLines(&combined)
	return lines, runErr
}

func splitLines(buf *bytes.Buffer) []string {
	var lines []string
	scanner := bufio.NewScanner(buf)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
