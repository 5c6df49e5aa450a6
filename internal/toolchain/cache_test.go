package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"
)

func writeFakeCompiler(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g++")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}
	return path
}

func TestDiskCache_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("cppforge-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	compiler := writeFakeCompiler(t)
	want := IncludePathResult{
		CompilerPath: compiler,
		IncludePaths: []string{"/usr/include/c++/11/**", "/usr/include/**"},
	}
	if err := cache.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := cache.Get(compiler)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestDiskCache_MissForUnknownCompiler(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("cppforge-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	compiler := writeFakeCompiler(t)
	_, hit, err := cache.Get(compiler)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected a miss for a compiler never cached")
	}
}

func TestDiskCache_MtimeChangeInvalidates(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("cppforge-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	compiler := writeFakeCompiler(t)
	if err := cache.Put(IncludePathResult{CompilerPath: compiler, IncludePaths: []string{"/usr/include/**"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Simulate a compiler upgrade.
	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(compiler, newTime, newTime); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	_, hit, err := cache.Get(compiler)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected a miss after the compiler binary changed")
	}
}

func TestDiskCache_SymlinkedCompilerRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires symlinks")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("cppforge-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	// Default distro layout: the command is a symlink to a versioned binary.
	bin := t.TempDir()
	versioned := filepath.Join(bin, "g++-12")
	if err := os.WriteFile(versioned, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write compiler: %v", err)
	}
	if err := os.Symlink("g++-12", filepath.Join(bin, "g++")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	t.Setenv("PATH", bin)

	canonical, err := PathLookup{}.FindExecutable("g++")
	if err != nil {
		t.Fatalf("FindExecutable: %v", err)
	}

	include := t.TempDir()
	runner := &fakeRunner{lines: []string{
		"#include <...> search starts here:",
		" " + include,
		"End of search list.",
	}}
	r := &Resolver{Lookup: PathLookup{}, Runner: runner, Logf: t.Logf}

	result := r.Resolve(context.Background(), "g++")
	if result.CompilerPath != canonical {
		t.Fatalf("CompilerPath = %q, want canonical %q", result.CompilerPath, canonical)
	}

	if err := cache.Put(result); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, hit, err := cache.Get(canonical)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a hit under the canonical compiler path")
	}
	if !reflect.DeepEqual(got, result) {
		t.Errorf("Get = %+v, want %+v", got, result)
	}
}

func TestDiskCache_DropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("cppforge-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	compiler := writeFakeCompiler(t)
	if err := cache.Put(IncludePathResult{CompilerPath: compiler}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	_, hit, err := cache.Get(compiler)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected a miss after DropAll")
	}
}

func TestDiskCache_NilReceiver(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(IncludePathResult{CompilerPath: "/usr/bin/g++"}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	_, hit, err := cache.Get("/usr/bin/g++")
	if err != nil {
		t.Errorf("nil Get: %v", err)
	}
	if hit {
		t.Error("nil cache should never hit")
	}
}
