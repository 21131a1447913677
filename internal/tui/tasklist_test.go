package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"cut", "a long title", 6, "a lon…"},
		{"zero width keeps text", "abc", 0, "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.in, tc.width))
		})
	}

	wide := Truncate("日本語のタイトル", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 7)
}

func TestPhaseHeading(t *testing.T) {
	assert.Equal(t, "Planning", PhaseHeading(constants.PhasePlanning))
	assert.Equal(t, "Deployment", PhaseHeading(constants.PhaseDeployment))
}

func TestRenderTaskList(t *testing.T) {
	plainOutput(t)

	tasks := []*domain.Task{
		{ID: 1, Title: "Ship it", Phase: constants.PhaseDeployment, Status: constants.TaskStatusPending},
		{ID: 2, Title: "Scope the work", Phase: constants.PhasePlanning, Status: constants.TaskStatusSuccess, Result: "Scoped."},
		{ID: 3, Title: "Write code", Description: "Implement the feature", Phase: constants.PhaseDevelopment, Status: constants.TaskStatusFailed},
	}

	var buf bytes.Buffer
	RenderTaskList(&buf, tasks, TaskListOptions{ShowDescription: true, ShowResult: true})
	out := buf.String()

	planning := strings.Index(out, "Planning")
	development := strings.Index(out, "Development")
	deployment := strings.Index(out, "Deployment")
	assert.Positive(t, development)
	assert.Less(t, planning, development)
	assert.Less(t, development, deployment)
	assert.NotContains(t, out, "Testing")

	assert.Contains(t, out, "✓  2. Scope the work")
	assert.Contains(t, out, "✗  3. Write code")
	assert.Contains(t, out, "○  1. Ship it")
	assert.Contains(t, out, "(failed)")
	assert.Contains(t, out, "Implement the feature")
	assert.Contains(t, out, "→ Scoped.")
}

func TestRenderTaskList_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderTaskList(&buf, nil, TaskListOptions{})
	assert.Empty(t, buf.String())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "a\n\nb", wrap("a\n\nb", 10))
	assert.Equal(t, "unchanged", wrap("unchanged", 0))
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name                               string
		total, pending, succeeded, failed int
		want                               string
	}{
		{"all done", 4, 0, 3, 1, "4 tasks: 3 succeeded, 1 failed"},
		{"one task", 1, 0, 1, 0, "1 task: 1 succeeded, 0 failed"},
		{"pending left", 5, 2, 2, 1, "5 tasks: 2 succeeded, 1 failed, 2 pending"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SummaryLine(tc.total, tc.pending, tc.succeeded, tc.failed))
		})
	}
}
