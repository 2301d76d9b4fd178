package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/kaizenhq/kaizen/internal/benchmark"
	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/reporting"
)

// progressReporter prints benchmark progress to the terminal. It implements
// benchmark.ProgressListener.
type progressReporter struct {
	out     io.Writer
	verbose bool
}

func newProgressReporter(out io.Writer, verbose bool) *progressReporter {
	return &progressReporter{out: out, verbose: verbose}
}

func (r *progressReporter) Listen(event benchmark.ProgressEvent) {
	switch event.EventType {
	case benchmark.EventBenchmarkStart:
		fmt.Fprintf(r.out, "Running %d problems...\n", event.TotalProblems) //nolint:errcheck
	case benchmark.EventProblemComplete:
		if r.verbose {
			status := "PASS"
			if !event.Passed {
				status = "FAIL"
			}
			line := fmt.Sprintf("  [%d/%d] %s  %s (%s)",
				event.ProblemNum, event.TotalProblems,
				padRight(event.ProblemID, 24), status,
				formatDuration(time.Duration(event.DurationMs)*time.Millisecond))
			if event.Error != "" {
				line += "  " + firstLine(event.Error)
			}
			fmt.Fprintln(r.out, line) //nolint:errcheck
		} else {
			mark := "."
			if !event.Passed {
				mark = "F"
			}
			fmt.Fprint(r.out, mark) //nolint:errcheck
		}
	case benchmark.EventBenchmarkComplete:
		if !r.verbose {
			fmt.Fprintln(r.out) //nolint:errcheck
		}
		fmt.Fprintf(r.out, "Done in %s\n", formatDuration(time.Duration(event.DurationMs)*time.Millisecond)) //nolint:errcheck
	}
}

// printSummary prints the headline score and metrics table for a result.
func printSummary(out io.Writer, result *models.BenchmarkResult) {
	fmt.Fprintf(out, "\n%s — agent %s\n", result.BenchmarkType, result.AgentID)                        //nolint:errcheck
	fmt.Fprintf(out, "Score: %.3f — %s\n", result.Score, reporting.InterpretScore(result.Score))       //nolint:errcheck
	if result.Details.CI95Lo != nil && result.Details.CI95Hi != nil {
		fmt.Fprintf(out, "95%% CI: [%.3f, %.3f]\n", *result.Details.CI95Lo, *result.Details.CI95Hi) //nolint:errcheck
	}

	names := make([]string, 0, len(result.Metrics))
	nameWidth := len("Metric")
	for name := range result.Metrics {
		names = append(names, name)
		if w := runewidth.StringWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	sort.Strings(names)

	fmt.Fprintf(out, "\n%s  %s\n", padRight("Metric", nameWidth), "Value") //nolint:errcheck
	for _, name := range names {
		fmt.Fprintf(out, "%s  %g\n", padRight(name, nameWidth), result.Metrics[name]) //nolint:errcheck
	}
}

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
