package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("detect compiler")
	time.Sleep(time.Millisecond)
	tm.End(idx, "/usr/bin/g++")

	idx = tm.Begin("editor workspace")
	tm.End(idx, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "detect compiler" || report.Phases[0].Note != "/usr/bin/g++" {
		t.Errorf("unexpected first phase: %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Errorf("expected positive duration, got %f", report.Phases[0].DurationMS)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total %f below first phase %f", report.TotalMS, report.Phases[0].DurationMS)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(0, "nope")
	tm.End(-1, "nope")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("expected no phases, got %d", len(got.Phases))
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("scaffold files")
	tm.End(idx, "")

	sum := tm.Summary()
	if !strings.Contains(sum, "scaffold files") {
		t.Errorf("summary missing phase name: %q", sum)
	}
	if !strings.Contains(sum, "total") {
		t.Errorf("summary missing total line: %q", sum)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	if got := NewTimer().Report(); got.TotalMS != 0 || len(got.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", got)
	}
}
