package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is kept free between menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the narrowest usable menu.
	MinMenuWidth = 40
)

// ErrMenuCanceled is returned when the user leaves a menu with q, Esc or
// Ctrl+C, or when no terminal is attached.
var ErrMenuCanceled = agendaerrors.ErrUserCanceled //nolint:gochecknoglobals // alias

// Option is one selectable menu entry.
type Option struct {
	// Label is the display text.
	Label string
	// Description is optional help text shown after the label.
	Description string
	// Value is returned when the option is picked.
	Value string
}

// MenuConfig holds configuration for menus.
type MenuConfig struct {
	// Width caps the menu width. Zero adapts to the terminal.
	Width int
	// Accessible enables screen-reader friendly prompts.
	Accessible bool
	// ShowKeyHints shows navigation help under the menu.
	ShowKeyHints bool
}

// NewMenuConfig returns the default configuration. Accessible mode follows
// the ACCESSIBLE environment variable.
func NewMenuConfig() *MenuConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &MenuConfig{
		Width:        DefaultBoxWidth,
		Accessible:   accessible,
		ShowKeyHints: true,
	}
}

// adaptWidth fits maxWidth to the terminal.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultBoxWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// runField runs a single-field form.
func runField(field huh.Field, cfg *MenuConfig, errorContext string) error {
	// Without a terminal the form would block forever.
	if !IsInteractive() {
		return ErrMenuCanceled
	}

	CheckNoColor()

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(AgendaTheme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(cfg.ShowKeyHints)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// AgendaTheme returns the huh theme in agenda's colors.
func AgendaTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Help.Ellipsis = t.Help.Ellipsis.Foreground(ColorMuted)
	return t
}

// Select presents a single-selection menu and returns the picked value.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%w: menu has no options", agendaerrors.ErrInvalidArgument)
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runField(field, NewMenuConfig(), "select menu failed"); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt.
func Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runField(field, NewMenuConfig(), "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Input presents a single-line prompt. validate may be nil.
func Input(prompt, defaultValue string, validate func(string) error) (string, error) {
	value := defaultValue
	field := huh.NewInput().
		Title(prompt).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := runField(field, NewMenuConfig(), "input prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}

// TextArea presents a multi-line prompt.
func TextArea(prompt, placeholder string) (string, error) {
	var value string
	field := huh.NewText().
		Title(prompt).
		Placeholder(placeholder).
		Value(&value)

	if err := runField(field, NewMenuConfig(), "text area failed"); err != nil {
		return "", err
	}
	return value, nil
}
