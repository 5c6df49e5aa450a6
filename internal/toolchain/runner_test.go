package toolchain

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_MergedOutputOrdered(t *testing.T) {
	skipWithoutShell(t)

	lines, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo one; echo two 1>&2; echo three")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	lines, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo partial; exit 3")
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
	// Output produced before the failure is still captured.
	if len(lines) != 1 || lines[0] != "partial" {
		t.Errorf("lines = %v, want [partial]", lines)
	}
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "/nonexistent/definitely-not-a-compiler")
	if err == nil {
		t.Fatal("expected an error when the binary cannot be spawned")
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	skipWithoutShell(t)

	start := time.Now()
	_, err := ExecRunner{Timeout: 100 * time.Millisecond}.Run(context.Background(), "sh", "-c", "sleep 10")
	if err == nil {
		t.Fatal("expected an error when the process outlives the timeout")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestExecRunner_EmptyStdin(t *testing.T) {
	skipWithoutShell(t)

	// cat must see EOF immediately instead of blocking.
	lines, err := ExecRunner{Timeout: 5 * time.Second}.Run(context.Background(), "cat")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("lines = %v, want none", lines)
	}
}
