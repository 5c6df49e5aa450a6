package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cppforge/internal/pkgmgr"
	"cppforge/internal/toolchain"
)

const installTimeout = 15 * time.Minute

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the C++ toolchain via the host package manager",
	Long: `Detect the host package manager (apt-get, dnf, pacman, zypper or brew)
and install the C++ compiler and debugger packages through it.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().Bool("dry-run", false, "print the install command without running it")
}

func runSetup(cmd *cobra.Command, _ []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	lookup := toolchain.PathLookup{}
	if ref, ok := toolchain.DetectCompiler(lookup); ok && !dryRun {
		if !quiet {
			fmt.Fprintf(os.Stdout, "compiler already installed: %s\n", ref.Path)
		}
		return nil
	}

	manager, ok := pkgmgr.Detect(lookup)
	if !ok {
		return fmt.Errorf("no supported package manager found (apt-get, dnf, pacman, zypper, brew)\ninstall a C++ compiler manually and re-run cppforge doctor")
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "%s\n", strings.Join(manager.InstallCommand(), " "))
		return nil
	}

	if err := manager.CheckPrivileges(os.Geteuid()); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "installing %s via %s...\n", strings.Join(manager.Packages, ", "), manager.Name)
	}
	if err := manager.Install(cmd.Context(), toolchain.ExecRunner{Timeout: installTimeout}); err != nil {
		return err
	}

	ref, ok := toolchain.DetectCompiler(lookup)
	if !ok {
		return fmt.Errorf("install finished but no compiler appeared on the search path\ncheck the %s output and re-run cppforge doctor", manager.Name)
	}
	fmt.Fprintf(os.Stdout, "installed %s\n", ref.Path)
	return nil
}
