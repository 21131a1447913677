package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/task"
)

// DefaultProgressWidth is the width of the run progress bar.
const DefaultProgressWidth = 30

// ProgressBar wraps the bubbles progress bar with agenda styling.
type ProgressBar struct {
	bar   progress.Model
	width int
}

// NewProgressBar creates a progress bar. NO_COLOR terminals get a solid fill.
func NewProgressBar(width int) *ProgressBar {
	var bar progress.Model
	if HasColorSupport() {
		bar = progress.New(
			progress.WithWidth(width),
			progress.WithScaledGradient("#0087AF", "#00D7FF"),
		)
	} else {
		bar = progress.New(
			progress.WithWidth(width),
			progress.WithSolidFill("#808080"),
		)
	}
	return &ProgressBar{bar: bar, width: width}
}

// Render returns the bar for percent in [0, 1]. Out of range values are clamped.
func (pb *ProgressBar) Render(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	return pb.bar.ViewAs(percent)
}

// Width returns the bar width.
func (pb *ProgressBar) Width() int {
	return pb.width
}

// FormatStepCounter formats progress as "current/total", e.g. "3/7".
func FormatStepCounter(current, total int) string {
	return fmt.Sprintf("%d/%d", current, total)
}

// RunProgress prints one line per engine event. It implements task.Metrics
// so the engine can drive it directly.
type RunProgress struct {
	mu      sync.Mutex
	w       io.Writer
	bar     *ProgressBar
	styles  *OutputStyles
	titles  func(id int) string
	total   int
	done    int
	showBar bool
}

var _ task.Metrics = (*RunProgress)(nil)

// NewRunProgress creates a progress printer. titles resolves task ids to
// titles and may be nil; unknown ids print as "task N". The bar is only drawn
// when showBar is set, which callers do for terminals.
func NewRunProgress(w io.Writer, titles func(id int) string, showBar bool) *RunProgress {
	return &RunProgress{
		w:       w,
		bar:     NewProgressBar(DefaultProgressWidth),
		styles:  NewOutputStyles(),
		titles:  titles,
		showBar: showBar,
	}
}

// RunStarted implements task.Metrics.
func (p *RunProgress) RunStarted(_ string, pending int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = pending
	p.done = 0
	noun := "tasks"
	if pending == 1 {
		noun = "task"
	}
	_, _ = fmt.Fprintln(p.w, p.styles.Info.Render(fmt.Sprintf("Running %d %s", pending, noun)))
}

// TaskStarted implements task.Metrics.
func (p *RunProgress) TaskStarted(taskID int, phase constants.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "%s [%s] %s %s\n",
		FormatStepCounter(p.done+1, p.total),
		phase,
		TaskStatusIcon(constants.TaskStatusInProgress),
		p.title(taskID))
}

// TaskCompleted implements task.Metrics.
func (p *RunProgress) TaskCompleted(taskID int, duration time.Duration, status constants.TaskStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++

	line := fmt.Sprintf("  %s %s (%s)", TaskStatusIcon(status), p.title(taskID), duration.Round(time.Millisecond))
	if status == constants.TaskStatusSuccess {
		line = p.styles.Success.Render(line)
	} else {
		line = p.styles.Error.Render(line)
	}
	_, _ = fmt.Fprintln(p.w, line)

	if p.showBar && p.total > 0 {
		_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.bar.Render(float64(p.done)/float64(p.total)), FormatStepCounter(p.done, p.total))
	}
}

// RunCompleted implements task.Metrics.
func (p *RunProgress) RunCompleted(_ string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, p.styles.Dim.Render(fmt.Sprintf("Run finished in %s", duration.Round(time.Millisecond))))
}

func (p *RunProgress) title(id int) string {
	if p.titles != nil {
		if t := p.titles(id); t != "" {
			return t
		}
	}
	return fmt.Sprintf("task %d", id)
}
