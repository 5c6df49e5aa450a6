// Package runpipeline orchestrates the external compile-and-run flow.
package runpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"cppforge/internal/toolchain"
)

// CompileRequest configures a single external compiler invocation.
type CompileRequest struct {
	// CompilerPath is the compiler binary; empty means detect one.
	CompilerPath string
	SourcePath   string
	OutputName   string
	OutputRoot   string
	Profile      string
	Standard     string
	ExtraFlags   []string

	PrintCommands bool
	Progress      ProgressSink
	// Files is the display list for progress events.
	Files []string
}

// CompileResult captures the produced binary and timings.
type CompileResult struct {
	CompilerPath string
	OutputPath   string
	Timings      Timings
}

// RunRequest extends CompileRequest with execution redirection.
type RunRequest struct {
	CompileRequest
	// InputPath, when set, is connected to the program's stdin.
	InputPath string
	// OutputPath, when set, captures the program's stdout.
	OutputPath string
	// Args are passed to the compiled program.
	Args []string
}

// RunResult captures the executed binary and its exit code.
type RunResult struct {
	CompileResult
	ExitCode int
}

// Compile invokes the external C++ compiler on the requested source
// file and places the binary under target/<profile>/.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.OutputName == "" {
		req.OutputName = "a.out"
	}
	if req.Profile == "" {
		req.Profile = "debug"
	}
	if req.Standard == "" {
		req.Standard = "c++17"
	}

	resolveStart := time.Now()
	if req.CompilerPath == "" {
		emitStage(req.Progress, req.Files, StageResolve, StatusWorking, nil, 0)
		ref, ok := toolchain.DetectCompiler(toolchain.PathLookup{})
		if !ok {
			err := fmt.Errorf("no C++ compiler found (tried %s)", strings.Join(toolchain.DefaultCompilers, ", "))
			emitStage(req.Progress, req.Files, StageResolve, StatusError, err, 0)
			return result, err
		}
		req.CompilerPath = ref.Path
	}
	result.CompilerPath = req.CompilerPath
	result.Timings.Set(StageResolve, time.Since(resolveStart))
	// A pre-resolved compiler still completes the resolve stage; the
	// progress view needs the event either way.
	emitStage(req.Progress, req.Files, StageResolve, StatusDone, nil, time.Since(resolveStart))

	if req.SourcePath == "" {
		return result, fmt.Errorf("missing source path")
	}
	if _, err := os.Stat(req.SourcePath); err != nil {
		return result, fmt.Errorf("failed to stat source %q: %w", req.SourcePath, err)
	}

	outputRoot := req.OutputRoot
	if outputRoot == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		outputRoot = cwd
	}
	outputDir := filepath.Join(outputRoot, "target", req.Profile)
	outputPath := filepath.Join(outputDir, req.OutputName)
	result.OutputPath = outputPath

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return result, fmt.Errorf("failed to create output dir: %w", err)
	}

	args := []string{"-std=" + req.Standard}
	if req.Profile == "release" {
		args = append(args, "-O2")
	} else {
		args = append(args, "-g")
	}
	args = append(args, req.ExtraFlags...)
	args = append(args, req.SourcePath, "-o", outputPath)

	compileStart := time.Now()
	emitStage(req.Progress, req.Files, StageCompile, StatusWorking, nil, 0)
	if err := runCommand(ctx, req.PrintCommands, req.CompilerPath, args...); err != nil {
		emitStage(req.Progress, req.Files, StageCompile, StatusError, err, time.Since(compileStart))
		result.Timings.Set(StageCompile, time.Since(compileStart))
		return result, err
	}
	result.Timings.Set(StageCompile, time.Since(compileStart))
	emitStage(req.Progress, req.Files, StageCompile, StatusDone, nil, time.Since(compileStart))
	return result, nil
}

// Run compiles the source and executes the produced binary with the
// requested stdin/stdout redirection. A non-zero program exit is not an
// error; it is reported through RunResult.ExitCode.
func Run(ctx context.Context, req *RunRequest) (RunResult, error) {
	var result RunResult
	if req == nil {
		return result, fmt.Errorf("missing run request")
	}

	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.CompileResult = compileRes
	if err != nil {
		return result, err
	}

	runStart := time.Now()
	emitStage(req.Progress, req.Files, StageRun, StatusWorking, nil, 0)

	cmd := exec.CommandContext(ctx, compileRes.OutputPath, req.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if req.InputPath != "" {
		in, openErr := os.Open(req.InputPath)
		if openErr != nil {
			err = fmt.Errorf("failed to open input file: %w", openErr)
			emitStage(req.Progress, req.Files, StageRun, StatusError, err, time.Since(runStart))
			return result, err
		}
		defer in.Close()
		cmd.Stdin = in
	}
	if req.OutputPath != "" {
		out, createErr := os.Create(req.OutputPath)
		if createErr != nil {
			err = fmt.Errorf("failed to create output file: %w", createErr)
			emitStage(req.Progress, req.Files, StageRun, StatusError, err, time.Since(runStart))
			return result, err
		}
		defer out.Close()
		cmd.Stdout = out
	}

	runErr := cmd.Run()
	result.Timings.Set(StageRun, time.Since(runStart))

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		emitStage(req.Progress, req.Files, StageRun, StatusDone, nil, time.Since(runStart))
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		emitStage(req.Progress, req.Files, StageRun, StatusDone, nil, time.Since(runStart))
	default:
		err = fmt.Errorf("failed to execute %q: %w", compileRes.OutputPath, runErr)
		emitStage(req.Progress, req.Files, StageRun, StatusError, err, time.Since(runStart))
		return result, err
	}
	return result, nil
}

func runCommand(ctx context.Context, printCommand bool, name string, args ...string) error {
	if printCommand {
		_, printErr := fmt.Fprintf(os.Stdout, "%s %s\n", name, strings.Join(args, " "))
		if printErr != nil {
			return fmt.Errorf("failed to print command: %w", printErr)
		}
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s: %s", filepath.Base(name), msg)
	}
	return nil
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
