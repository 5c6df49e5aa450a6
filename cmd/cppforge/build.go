package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cppforge/internal/runpipeline"
	"cppforge/internal/toolchain"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.cpp]",
	Short: "Compile a workspace or a single source file",
	Long:  "Compile the workspace's [run].main (or an explicit source file) into target/<profile>/.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().Bool("release", false, "optimize for release")
	buildCmd.Flags().String("std", "", "C++ standard (default: manifest or c++17)")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("print-commands", false, "print compiler commands")
}

// buildTarget captures everything the pipeline needs about the source
// being compiled.
type buildTarget struct {
	sourcePath string
	outputRoot string
	outputName string
	compiler   string
	standard   string
	inputPath  string
	outputPath string
}

func resolveBuildTarget(args []string) (buildTarget, error) {
	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return buildTarget{}, err
	}
	if found && len(args) == 0 {
		sourcePath, err := resolveRunTarget(manifest)
		if err != nil {
			return buildTarget{}, err
		}
		return buildTarget{
			sourcePath: sourcePath,
			outputRoot: manifest.Root,
			outputName: manifest.Config.Package.Name,
			compiler:   manifest.Config.Build.Compiler,
			standard:   manifest.Config.Build.Standard,
			inputPath:  redirectPath(manifest.Root, manifest.Config.Run.Input),
			outputPath: redirectPath(manifest.Root, manifest.Config.Run.Output),
		}, nil
	}
	if len(args) == 0 {
		return buildTarget{}, errors.New(noManifestMessage)
	}

	sourcePath, err := filepath.Abs(args[0])
	if err != nil {
		return buildTarget{}, err
	}
	if !isCppSource(sourcePath) {
		return buildTarget{}, fmt.Errorf("%q is not a C++ source file", args[0])
	}
	return buildTarget{
		sourcePath: sourcePath,
		outputRoot: filepath.Dir(sourcePath),
		outputName: outputNameFromPath(sourcePath),
	}, nil
}

// compilerPathFor resolves the manifest's compiler command; an empty or
// unresolvable command defers detection to the pipeline.
func compilerPathFor(command string) string {
	if command == "" {
		return ""
	}
	if path, err := (toolchain.PathLookup{}).FindExecutable(command); err == nil {
		return path
	}
	return ""
}

func buildExecution(cmd *cobra.Command, args []string) error {
	release, err := cmd.Flags().GetBool("release")
	if err != nil {
		return err
	}
	stdFlag, err := cmd.Flags().GetString("std")
	if err != nil {
		return err
	}
	printCommands, err := cmd.Flags().GetBool("print-commands")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	target, err := resolveBuildTarget(args)
	if err != nil {
		return err
	}

	profile := "debug"
	if release {
		profile = "release"
	}
	standard := target.standard
	if stdFlag != "" {
		standard = stdFlag
	}

	display := displayPath(target.outputRoot, target.sourcePath)
	req := runpipeline.CompileRequest{
		CompilerPath:  compilerPathFor(target.compiler),
		SourcePath:    target.sourcePath,
		OutputName:    target.outputName,
		OutputRoot:    target.outputRoot,
		Profile:       profile,
		Standard:      standard,
		PrintCommands: printCommands,
		Files:         []string{display},
	}

	var res runpipeline.CompileResult
	if uiModeValue.useTUI() {
		res, err = runCompileWithUI(cmd.Context(), "cppforge build", display, &req)
	} else {
		res, err = runpipeline.Compile(cmd.Context(), &req)
	}
	if err != nil {
		return err
	}

	if err := maybePrintTimings(cmd, res.Timings, false); err != nil {
		return err
	}
	_, fprintfErr := fmt.Fprintf(os.Stdout, "built %s\n", displayPath(target.outputRoot, res.OutputPath))
	return fprintfErr
}

func displayPath(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func maybePrintTimings(cmd *cobra.Command, timings runpipeline.Timings, includeRun bool) error {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		printStageTimings(os.Stdout, timings, includeRun)
	}
	return nil
}
