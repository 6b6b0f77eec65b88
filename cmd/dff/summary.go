package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	dff "github.com/lemonyte/dff/pkg"
)

// summary prints the human-readable progress lines that accompany the report
type summary struct {
	out   io.Writer
	count func(a ...interface{}) string
	info  func(a ...interface{}) string
}

func newSummary(out io.Writer) *summary {
	return &summary{
		out:   out,
		count: color.New(color.FgCyan, color.Bold).SprintFunc(),
		info:  color.New(color.FgGreen).SprintFunc(),
	}
}

func (s *summary) files(n int) {
	fmt.Fprintf(s.out, "Found %s files.\n", s.count(n))
}

// stage reports how many files survived one stage
func (s *summary) stage(stats dff.StageStats) {
	fmt.Fprintf(s.out, "Found %s %s.\n", s.count(stats.Survivors), stats.Summary)
	if stats.Failed > 0 {
		fmt.Fprintf(s.out, "  %s\n", color.YellowString("%d files could not be read", stats.Failed))
	}
}

func (s *summary) duplicates(dupes, total int, elapsed time.Duration) {
	percent := 0.0
	if total > 0 {
		percent = float64(dupes) / float64(total) * 100
	}
	fmt.Fprintf(s.out, "Found %s duplicate files in %s seconds (%s of all files).\n",
		s.count(dupes),
		s.info(fmt.Sprintf("%.4f", elapsed.Seconds())),
		s.info(fmt.Sprintf("%.2f%%", percent)))
}
