package main

import (
	"fmt"
	"io"
	"time"

	"cppforge/internal/runpipeline"
)

func printStageTimings(out io.Writer, timings runpipeline.Timings, includeRun bool) {
	if out == nil {
		return
	}
	if timings.Has(runpipeline.StageResolve) {
		fmt.Fprintf(out, "resolved %.1f ms\n", toMillis(timings.Duration(runpipeline.StageResolve)))
	}
	if timings.Has(runpipeline.StageCompile) {
		fmt.Fprintf(out, "compiled %.1f ms\n", toMillis(timings.Duration(runpipeline.StageCompile)))
	}
	if includeRun && timings.Has(runpipeline.StageRun) {
		fmt.Fprintf(out, "ran %.1f ms\n", toMillis(timings.Duration(runpipeline.StageRun)))
	}
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
