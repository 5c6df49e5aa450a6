// Package pkgmgr adapts the host package manager for toolchain
// installation.
package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"cppforge/internal/toolchain"
)

// Manager describes a detected package manager and the toolchain
// package set it installs.
type Manager struct {
	Name     string
	Path     string
	Packages []string

	installArgs []string
	// needsRoot: system managers refuse to run unprivileged.
	// refusesRoot: brew refuses to run as root.
	needsRoot   bool
	refusesRoot bool
}

// Detection order: Linux system managers first, then Homebrew.
var specs = []Manager{
	{Name: "apt-get", Packages: []string{"build-essential", "gdb"}, installArgs: []string{"install", "-y"}, needsRoot: true},
	{Name: "dnf", Packages: []string{"gcc-c++", "gdb"}, installArgs: []string{"install", "-y"}, needsRoot: true},
	{Name: "pacman", Packages: []string{"gcc", "gdb"}, installArgs: []string{"-S", "--noconfirm"}, needsRoot: true},
	{Name: "zypper", Packages: []string{"gcc-c++", "gdb"}, installArgs: []string{"install", "-y"}, needsRoot: true},
	{Name: "brew", Packages: []string{"gcc", "gdb"}, installArgs: []string{"install"}, refusesRoot: true},
}

// Detect returns the first package manager present on the search path.
func Detect(lookup toolchain.Lookup) (Manager, bool) {
	for _, spec := range specs {
		if path, err := lookup.FindExecutable(spec.Name); err == nil {
			spec.Path = path
			return spec, true
		}
	}
	return Manager{}, false
}

// InstallCommand returns the full argv that installs the toolchain.
func (m Manager) InstallCommand() []string {
	argv := []string{m.Path}
	argv = append(argv, m.installArgs...)
	argv = append(argv, m.Packages...)
	return argv
}

// CheckPrivileges validates the effective uid against the manager's
// privilege policy and returns remediation instructions on mismatch.
func (m Manager) CheckPrivileges(euid int) error {
	if m.needsRoot && euid != 0 {
		return fmt.Errorf("%s requires root privileges\nre-run as: sudo %s", m.Name, strings.Join(m.InstallCommand(), " "))
	}
	if m.refusesRoot && euid == 0 {
		return fmt.Errorf("%s must not run as root\nre-run without sudo", m.Name)
	}
	return nil
}

// Install runs the install command through the given runner and
// surfaces the tail of its output on failure.
func (m Manager) Install(ctx context.Context, runner toolchain.Runner) error {
	argv := m.InstallCommand()
	lines, err := runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		detail := ""
		if len(lines) > 0 {
			detail = ": " + lines[len(lines)-1]
		}
		return fmt.Errorf("%s install failed%s: %w", m.Name, detail, err)
	}
	return nil
}
