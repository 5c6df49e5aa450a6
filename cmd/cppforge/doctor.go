package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cppforge/internal/editor"
	"cppforge/internal/pkgmgr"
	"cppforge/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report toolchain, editor and package-manager health",
	Long: `Probe the host for a C++ compiler, debugger, editor CLI and package
manager, and run include-path introspection on the detected compiler.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	doctorCmd.Flags().Bool("verbose", false, "report introspection details")
}

type probeReport struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type doctorReport struct {
	Compiler     probeReport `json:"compiler"`
	Debugger     probeReport `json:"debugger"`
	EditorCLI    probeReport `json:"editor_cli"`
	PackageMgr   probeReport `json:"package_manager"`
	IncludePaths []string    `json:"include_paths"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "pretty", "json":
		// supported
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	report := collectDoctorReport(cmd, verbose)

	if strings.ToLower(format) == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderDoctorPretty(cmd, report, verbose)

	if !report.Compiler.OK {
		return fmt.Errorf("no C++ compiler available; run cppforge setup")
	}
	return nil
}

// collectDoctorReport probes the independent tools concurrently; each
// probe is a cheap PATH lookup except compiler introspection.
func collectDoctorReport(cmd *cobra.Command, verbose bool) doctorReport {
	lookup := toolchain.PathLookup{}
	var report doctorReport

	var g errgroup.Group
	g.Go(func() error {
		ref, ok := toolchain.DetectCompiler(lookup)
		report.Compiler = probeReport{Name: ref.Name, Path: ref.Path, OK: ok}
		if !ok {
			report.Compiler.Detail = "run cppforge setup"
			return nil
		}
		resolver := toolchain.NewResolver()
		resolver.Verbose = verbose
		result := resolver.Resolve(cmd.Context(), ref.Name)
		report.IncludePaths = result.IncludePaths
		if len(result.IncludePaths) == 0 {
			report.Compiler.Detail = "include-path introspection yielded nothing"
		}
		return nil
	})
	g.Go(func() error {
		ref, ok := toolchain.DetectDebugger(lookup)
		report.Debugger = probeReport{Name: ref.Name, Path: ref.Path, OK: ok}
		if !ok {
			report.Debugger.Detail = "debugging from the editor will not work"
		}
		return nil
	})
	g.Go(func() error {
		path, err := editor.DetectCLI(lookup)
		report.EditorCLI = probeReport{Name: "editor CLI", Path: path, OK: err == nil}
		if err != nil {
			report.EditorCLI.Detail = "install VS Code and enable its shell command"
		}
		return nil
	})
	g.Go(func() error {
		manager, ok := pkgmgr.Detect(lookup)
		report.PackageMgr = probeReport{Name: manager.Name, Path: manager.Path, OK: ok}
		if !ok {
			report.PackageMgr.Name = "package manager"
			report.PackageMgr.Detail = "cppforge setup will not be able to install anything"
		}
		return nil
	})
	// Probes never fail; they record their findings.
	_ = g.Wait()
	return report
}

func renderDoctorPretty(cmd *cobra.Command, report doctorReport, verbose bool) {
	out := cmd.OutOrStdout()
	okMark := color.New(color.FgGreen, color.Bold).Sprint("ok")
	failMark := color.New(color.FgRed, color.Bold).Sprint("missing")
	for _, probe := range []probeReport{report.Compiler, report.Debugger, report.EditorCLI, report.PackageMgr} {
		mark := okMark
		if !probe.OK {
			mark = failMark
		}
		fmt.Fprintf(out, "%-16s %s", probe.Name, mark)
		if probe.Path != "" {
			fmt.Fprintf(out, "  %s", probe.Path)
		}
		fmt.Fprintln(out)
		if probe.Detail != "" {
			fmt.Fprintf(out, "%-16s ^ %s\n", "", probe.Detail)
		}
	}
	fmt.Fprintf(out, "%-16s %d detected\n", "include paths", len(report.IncludePaths))
	if verbose {
		for _, path := range report.IncludePaths {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
}
