package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cppforge/internal/toolchain"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove build artifacts (target directory)",
	Long: `Remove the target directory used for compiled binaries. With --cache,
also drop the cached compiler include-path introspection results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also drop the include-path introspection cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}

	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	baseDir, err = resolveCleanBase(baseDir)
	if err != nil {
		return err
	}

	if err := removeTargetDir(baseDir); err != nil {
		return err
	}

	if dropCache {
		cache, err := toolchain.OpenDiskCache("cppforge")
		if err != nil {
			return fmt.Errorf("failed to open introspection cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop introspection cache: %w", err)
		}
		fmt.Fprintln(os.Stdout, "dropped introspection cache")
	}
	return nil
}

func removeTargetDir(baseDir string) error {
	targetDir := filepath.Join(baseDir, "target")
	info, err := os.Stat(targetDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stdout, "target directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", targetDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", targetDir)
	}
	if err := os.RemoveAll(targetDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", targetDir, err)
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", displayPath(baseDir, targetDir))
	return nil
}

// resolveCleanBase roots the cleanup at the workspace when a manifest
// is reachable from base, otherwise at base itself.
func resolveCleanBase(base string) (string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", base, err)
	}
	if !info.IsDir() {
		base = filepath.Dir(base)
	}
	manifest, ok, err := loadProjectManifest(base)
	if err != nil {
		return "", err
	}
	if ok {
		return manifest.Root, nil
	}
	return filepath.Abs(base)
}
