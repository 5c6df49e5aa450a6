package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cppforge/internal/runpipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.cpp] [-- args...]",
	Short: "Compile and execute with file-redirected input/output",
	Long: `Compile the workspace's [run].main (or an explicit source file) and
execute it with stdin fed from the input file and stdout captured into
the output file, as configured in cppforge.toml.`,
	Args: cobra.ArbitraryArgs,
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Bool("release", false, "optimize for release")
	runCmd.Flags().String("std", "", "C++ standard (default: manifest or c++17)")
	runCmd.Flags().String("input", "", "file redirected to the program's stdin (default: manifest)")
	runCmd.Flags().String("output", "", "file capturing the program's stdout (default: manifest)")
	runCmd.Flags().Bool("no-redirect", false, "ignore redirection and use the terminal")
	runCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	runCmd.Flags().Bool("print-commands", false, "print compiler commands")
}

func runExecution(cmd *cobra.Command, args []string) error {
	release, err := cmd.Flags().GetBool("release")
	if err != nil {
		return err
	}
	stdFlag, err := cmd.Flags().GetString("std")
	if err != nil {
		return err
	}
	inputFlag, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	outputFlag, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	noRedirect, err := cmd.Flags().GetBool("no-redirect")
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

	argsBeforeDash, programArgs := splitArgsAtDash(cmd, args)
	target, err := resolveBuildTarget(argsBeforeDash)
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

	inputPath := target.inputPath
	outputPath := target.outputPath
	if inputFlag != "" {
		inputPath = inputFlag
	}
	if outputFlag != "" {
		outputPath = outputFlag
	}
	if noRedirect {
		inputPath, outputPath = "", ""
	}

	display := displayPath(target.outputRoot, target.sourcePath)
	req := runpipeline.RunRequest{
		CompileRequest: runpipeline.CompileRequest{
			CompilerPath:  compilerPathFor(target.compiler),
			SourcePath:    target.sourcePath,
			OutputName:    target.outputName,
			OutputRoot:    target.outputRoot,
			Profile:       profile,
			Standard:      standard,
			PrintCommands: printCommands,
			Files:         []string{display},
		},
		InputPath:  inputPath,
		OutputPath: outputPath,
		Args:       programArgs,
	}

	// The TUI would fight the program for the terminal; only use it
	// when stdout is redirected to a file.
	useTUI := uiModeValue.useTUI() && outputPath != ""

	var res runpipeline.RunResult
	if useTUI {
		res, err = runRunWithUI(cmd.Context(), "cppforge run", display, &req)
	} else {
		res, err = runpipeline.Run(cmd.Context(), &req)
	}
	if err != nil {
		return err
	}

	if err := maybePrintTimings(cmd, res.Timings, true); err != nil {
		return err
	}
	if outputPath != "" {
		quiet, quietErr := cmd.Root().PersistentFlags().GetBool("quiet")
		if quietErr != nil {
			return quietErr
		}
		if !quiet {
			fmt.Fprintf(os.Stdout, "output written to %s\n", displayPath(target.outputRoot, outputPath))
		}
	}

	// Propagate the program's exit code.
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}

// splitArgsAtDash separates cobra args into the part before and after
// the "--" terminator.
func splitArgsAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	if at := cmd.ArgsLenAtDash(); at >= 0 && at <= len(args) {
		return args[:at], args[at:]
	}
	return args, nil
}
