package ui

import (
	"strings"
	"testing"
	"time"

	"cppforge/internal/runpipeline"
)

func newTestModel(stages ...runpipeline.Stage) *progressModel {
	events := make(chan runpipeline.Event)
	return NewProgressModel("cppforge run", "main.cpp", stages, events).(*progressModel)
}

func TestApplyEvent_UpdatesStageRow(t *testing.T) {
	m := newTestModel(runpipeline.StageResolve, runpipeline.StageCompile, runpipeline.StageRun)

	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageCompile, Status: runpipeline.StatusWorking})
	if m.rows[1].status != runpipeline.StatusWorking {
		t.Errorf("compile row status = %q, want working", m.rows[1].status)
	}

	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageCompile, Status: runpipeline.StatusDone, Elapsed: 5 * time.Millisecond})
	if m.rows[1].status != runpipeline.StatusDone {
		t.Errorf("compile row status = %q, want done", m.rows[1].status)
	}
	if m.rows[1].elapsed != 5*time.Millisecond {
		t.Errorf("compile row elapsed = %v, want 5ms", m.rows[1].elapsed)
	}
}

func TestApplyEvent_UnknownStageIgnored(t *testing.T) {
	m := newTestModel(runpipeline.StageResolve, runpipeline.StageCompile)
	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageRun, Status: runpipeline.StatusWorking})
	for i, row := range m.rows {
		if row.status != runpipeline.StatusQueued {
			t.Errorf("row %d status = %q, want queued", i, row.status)
		}
	}
}

func TestApplyEvent_ErrorMarksFailure(t *testing.T) {
	m := newTestModel(runpipeline.StageResolve, runpipeline.StageCompile)
	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageCompile, Status: runpipeline.StatusError})
	if !m.failed {
		t.Error("expected the model to record a failure")
	}
}

func TestView_ShowsStageVerbs(t *testing.T) {
	m := newTestModel(runpipeline.StageResolve, runpipeline.StageCompile, runpipeline.StageRun)
	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageResolve, Status: runpipeline.StatusDone, Elapsed: time.Millisecond})
	m.applyEvent(runpipeline.Event{Stage: runpipeline.StageCompile, Status: runpipeline.StatusWorking})

	view := m.View()
	for _, want := range []string{"main.cpp", "resolved", "compiling", "running"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStageVerb(t *testing.T) {
	cases := []struct {
		stage  runpipeline.Stage
		status runpipeline.Status
		want   string
	}{
		{runpipeline.StageResolve, runpipeline.StatusWorking, "resolving"},
		{runpipeline.StageResolve, runpipeline.StatusDone, "resolved"},
		{runpipeline.StageCompile, runpipeline.StatusQueued, "compiling"},
		{runpipeline.StageRun, runpipeline.StatusDone, "ran"},
	}
	for _, tc := range cases {
		if got := stageVerb(tc.stage, tc.status); got != tc.want {
			t.Errorf("stageVerb(%s, %s) = %q, want %q", tc.stage, tc.status, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	got := truncate("a/very/long/path/to/solutions/main.cpp", 12)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long = %q, want ellipsis suffix", got)
	}
}
