package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
)

// Truncate shortens s to at most width terminal cells, ending in "…".
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PhaseHeading returns the display heading for a phase, e.g. "Development".
func PhaseHeading(p constants.Phase) string {
	return cases.Title(language.English).String(string(p))
}

// TaskListOptions controls RenderTaskList.
type TaskListOptions struct {
	// Width caps each line. Zero uses DefaultBoxWidth.
	Width int
	// ShowDescription adds the description under each title.
	ShowDescription bool
	// ShowResult adds the result narrative of finished tasks.
	ShowResult bool
}

// RenderTaskList writes tasks grouped by phase in lifecycle order. Within a
// phase, tasks keep their plan order. Empty phases are skipped.
func RenderTaskList(w io.Writer, tasks []*domain.Task, opts TaskListOptions) {
	CheckNoColor()
	styles := NewOutputStyles()
	width := opts.Width
	if width <= 0 {
		width = DefaultBoxWidth
	}

	groups := make(map[constants.Phase][]*domain.Task)
	for _, t := range tasks {
		groups[t.Phase] = append(groups[t.Phase], t)
	}

	first := true
	for _, phase := range constants.AllPhases() {
		group := groups[phase]
		if len(group) == 0 {
			continue
		}
		if !first {
			_, _ = fmt.Fprintln(w)
		}
		first = false

		_, _ = fmt.Fprintln(w, styles.Heading.Render(PhaseHeading(phase)))
		for _, t := range group {
			_, _ = fmt.Fprintln(w, renderTaskLine(t, width))
			if opts.ShowDescription && t.Description != "" {
				_, _ = fmt.Fprintln(w, styles.Dim.Render(indent(wrap(t.Description, width-6), "      ")))
			}
			if opts.ShowResult && t.Result != "" {
				_, _ = fmt.Fprintln(w, styles.Dim.Render(indent(wrap(t.Result, width-6), "    → ")))
			}
		}
	}
}

func renderTaskLine(t *domain.Task, width int) string {
	icon := lipgloss.NewStyle().Foreground(TaskStatusColor(t.Status)).Render(TaskStatusIcon(t.Status))
	prefix := fmt.Sprintf("  %s %2d. ", icon, t.ID)
	suffix := " (" + t.Status.String() + ")"
	room := width - runewidth.StringWidth(fmt.Sprintf("  %s %2d. ", TaskStatusIcon(t.Status), t.ID)) - len(suffix)
	return prefix + Truncate(t.Title, room) + StyleDim.Render(suffix)
}

// wrap breaks s into lines of at most width cells on word boundaries.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(para) {
			ww := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+ww > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += ww
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// indent prefixes the first line with prefix and the rest with spaces of the
// same width.
func indent(s, prefix string) string {
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	lines := strings.Split(s, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// SummaryLine formats per-status counts, e.g. "4 tasks: 3 succeeded, 1 failed".
func SummaryLine(total, pending, succeeded, failed int) string {
	parts := []string{fmt.Sprintf("%d succeeded", succeeded), fmt.Sprintf("%d failed", failed)}
	if pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", pending))
	}
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}
