package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cppforge/internal/runpipeline"
	"cppforge/internal/ui"
)

type compileOutcome struct {
	result runpipeline.CompileResult
	err    error
}

type runOutcome struct {
	result runpipeline.RunResult
	err    error
}

func runCompileWithUI(ctx context.Context, title, source string, req *runpipeline.CompileRequest) (runpipeline.CompileResult, error) {
	if req == nil {
		return runpipeline.CompileResult{}, fmt.Errorf("missing compile request")
	}
	events := make(chan runpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = runpipeline.ChannelSink{Ch: events}
		res, err := runpipeline.Compile(ctx, &reqCopy)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	stages := []runpipeline.Stage{runpipeline.StageResolve, runpipeline.StageCompile}
	model := ui.NewProgressModel(title, source, stages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func runRunWithUI(ctx context.Context, title, source string, req *runpipeline.RunRequest) (runpipeline.RunResult, error) {
	if req == nil {
		return runpipeline.RunResult{}, fmt.Errorf("missing run request")
	}
	events := make(chan runpipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = runpipeline.ChannelSink{Ch: events}
		res, err := runpipeline.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	stages := []runpipeline.Stage{runpipeline.StageResolve, runpipeline.StageCompile, runpipeline.StageRun}
	model := ui.NewProgressModel(title, source, stages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
