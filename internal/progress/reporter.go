// Package progress reports long-running CLI work either as a terminal bar
// or as plain lines for CI logs.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates for a batch of work.
type Reporter interface {
	Start(total int, description string)
	Step(message string)
	Finish()
}

// NewReporter returns a LineReporter when running under CI and a
// TerminalReporter otherwise. Output goes to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter draws a progress bar.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int, description string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Step(message string) {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per step.
type LineReporter struct {
	w           io.Writer
	total, done int
	description string
}

func (r *LineReporter) Start(total int, description string) {
	r.total, r.done, r.description = total, 0, description
	fmt.Fprintf(r.w, "%s: %d to go\n", description, total)
}

func (r *LineReporter) Step(message string) {
	r.done++
	fmt.Fprintf(r.w, "[%d/%d] %s\n", r.done, r.total, message)
}

func (r *LineReporter) Finish() {
	fmt.Fprintf(r.w, "%s: done\n", r.description)
}
