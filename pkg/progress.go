package dff

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

// Reporter observes pipeline progress. It never influences results.
type Reporter interface {
	StartStage(label string, total int)
	Advance(n int)
	FinishStage()
}

// NopReporter discards all progress
type NopReporter struct{}

func (NopReporter) StartStage(string, int) {}
func (NopReporter) Advance(int)            {}
func (NopReporter) FinishStage()           {}

const progressBarWidth = 40

// TerminalReporter draws a single-line progress bar. Safe for concurrent Advance calls.
type TerminalReporter struct {
	out     io.Writer
	limiter *rate.Limiter

	mu      sync.Mutex
	label   string
	total   int
	done    int
	started time.Time
}

// NewTerminalReporter returns a reporter drawing on out, or a NopReporter when out is
// not a terminal
func NewTerminalReporter(out *os.File) Reporter {
	if out == nil || !(isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return NopReporter{}
	}
	return newTerminalReporter(out)
}

func newTerminalReporter(out io.Writer) *TerminalReporter {
	return &TerminalReporter{
		out:     out,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
}

func (tr *TerminalReporter) StartStage(label string, total int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.label, tr.total, tr.done = label, total, 0
	tr.started = time.Now()
	tr.draw()
}

func (tr *TerminalReporter) Advance(n int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.done += n
	if tr.done >= tr.total || tr.limiter.Allow() {
		tr.draw()
	}
}

func (tr *TerminalReporter) FinishStage() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	fmt.Fprint(tr.out, "\r\033[K")
}

// draw renders the bar; callers hold tr.mu
func (tr *TerminalReporter) draw() {
	fmt.Fprint(tr.out, "\r\033[K"+tr.render())
}

func (tr *TerminalReporter) render() string {
	green := color.New(color.FgGreen).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	grey := color.New(color.FgHiBlack).SprintFunc()

	frac := 1.0
	if tr.total > 0 {
		frac = float64(tr.done) / float64(tr.total)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * progressBarWidth)
	bar := green(strings.Repeat("━", filled)) + grey(strings.Repeat("━", progressBarWidth-filled))

	elapsed := time.Since(tr.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s %s %s %s",
		tr.label, bar,
		magenta(fmt.Sprintf("%3.0f%%", frac*100)),
		green(fmt.Sprintf("%d/%d", tr.done, tr.total)),
		cyan(elapsed.String()))
}
