package pkgmgr

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeLookup struct {
	strict map[string]string
}

func (f fakeLookup) Find(name string) (string, error) { return f.FindExecutable(name) }

func (f fakeLookup) FindExecutable(name string) (string, error) {
	if path, ok := f.strict[name]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

func TestDetect_PrefersSystemManager(t *testing.T) {
	lookup := fakeLookup{strict: map[string]string{
		"apt-get": "/usr/bin/apt-get",
		"brew":    "/opt/homebrew/bin/brew",
	}}
	m, ok := Detect(lookup)
	if !ok {
		t.Fatal("expected a detection")
	}
	if m.Name != "apt-get" {
		t.Errorf("Name = %q, want apt-get", m.Name)
	}
	want := []string{"/usr/bin/apt-get", "install", "-y", "build-essential", "gdb"}
	if !reflect.DeepEqual(m.InstallCommand(), want) {
		t.Errorf("InstallCommand = %v, want %v", m.InstallCommand(), want)
	}
}

func TestDetect_NothingAvailable(t *testing.T) {
	if _, ok := Detect(fakeLookup{}); ok {
		t.Error("expected no detection on an empty search path")
	}
}

func TestCheckPrivileges(t *testing.T) {
	apt, ok := Detect(fakeLookup{strict: map[string]string{"apt-get": "/usr/bin/apt-get"}})
	if !ok {
		t.Fatal("expected apt-get detection")
	}
	if err := apt.CheckPrivileges(0); err != nil {
		t.Errorf("root should satisfy apt-get: %v", err)
	}
	err := apt.CheckPrivileges(1000)
	if err == nil {
		t.Fatal("expected an error for unprivileged apt-get")
	}
	if !strings.Contains(err.Error(), "sudo") {
		t.Errorf("err = %v, want sudo remediation", err)
	}

	brew, ok := Detect(fakeLookup{strict: map[string]string{"brew": "/opt/homebrew/bin/brew"}})
	if !ok {
		t.Fatal("expected brew detection")
	}
	if err := brew.CheckPrivileges(1000); err != nil {
		t.Errorf("unprivileged brew should pass: %v", err)
	}
	if err := brew.CheckPrivileges(0); err == nil {
		t.Error("expected an error for brew as root")
	}
}

type fakeRunner struct {
	lines []string
	err   error
	argv  []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]string, error) {
	f.argv = append([]string{name}, args...)
	return f.lines, f.err
}

func TestInstall(t *testing.T) {
	m, ok := Detect(fakeLookup{strict: map[string]string{"pacman": "/usr/bin/pacman"}})
	if !ok {
		t.Fatal("expected pacman detection")
	}
	runner := &fakeRunner{}
	if err := m.Install(context.Background(), runner); err != nil {
		t.Fatalf("Install: %v", err)
	}
	want := []string{"/usr/bin/pacman", "-S", "--noconfirm", "gcc", "gdb"}
	if !reflect.DeepEqual(runner.argv, want) {
		t.Errorf("argv = %v, want %v", runner.argv, want)
	}

	failing := &fakeRunner{lines: []string{"error: target not found"}, err: errors.New("exit status 1")}
	err := m.Install(context.Background(), failing)
	if err == nil {
		t.Fatal("expected an install error")
	}
	if !strings.Contains(err.Error(), "target not found") {
		t.Errorf("err = %v, want output tail surfaced", err)
	}
}
