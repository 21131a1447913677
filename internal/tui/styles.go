// Package tui provides terminal output for agenda: styled and JSON output,
// interactive menus, the grouped task list, run progress and markdown
// rendering of task results.
//
// # Semantic Colors
//
//   - ColorPrimary (Blue): active states and prompts
//   - ColorSuccess (Green): succeeded tasks
//   - ColorWarning (Yellow): warnings and in-progress tasks
//   - ColorError (Red): failed tasks and errors
//   - ColorMuted (Gray): pending tasks and secondary text
//
// # NO_COLOR Support
//
// Call CheckNoColor() before rendering styled text. Colors are disabled when
// NO_COLOR is set or TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/agenda/internal/constants"
)

// DefaultBoxWidth is the default width for menus and rendered text.
const DefaultBoxWidth = 80

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is blue, used for active states and prompts.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for succeeded tasks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings and running tasks.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for pending tasks and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Heading lipgloss.Style
}

// NewOutputStyles creates the common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Heading: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unsupported.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (to any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// TaskStatusColor returns the color for a task status.
func TaskStatusColor(status constants.TaskStatus) lipgloss.AdaptiveColor {
	switch status {
	case constants.TaskStatusInProgress:
		return ColorWarning
	case constants.TaskStatusSuccess:
		return ColorSuccess
	case constants.TaskStatusFailed:
		return ColorError
	default:
		return ColorMuted
	}
}

// TaskStatusIcon returns the icon for a task status. Status is always shown
// as icon, color and text together so it survives NO_COLOR.
func TaskStatusIcon(status constants.TaskStatus) string {
	switch status {
	case constants.TaskStatusPending:
		return "○"
	case constants.TaskStatusInProgress:
		return "●"
	case constants.TaskStatusSuccess:
		return "✓"
	case constants.TaskStatusFailed:
		return "✗"
	default:
		return "?"
	}
}
