package edit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
)

var (
	errFieldNotEditable = errors.New("field is not editable")
	errNotAString       = errors.New("value must be a string")
	errEmptyTitle       = errors.New("title must not be empty")
	errUnknownPhase     = errors.New("unknown phase")
	errNoChanges        = errors.New("proposal changes nothing")
)

// parseProposal validates a reply of the form
// {"changes":{"title":...,"description":...,"phase":...},"summary":"..."}.
// A reply without "changes" is read as a flat object of field values. Any key
// outside the editable fields fails the proposal, null-valued or not.
func parseProposal(raw string) (domain.TaskDiff, string, error) {
	var diff domain.TaskDiff

	var top map[string]json.RawMessage
	if err := llm.DecodeJSON(raw, &top); err != nil {
		return diff, "", &Error{Raw: raw, Err: err}
	}

	var summary string
	if s, ok := top["summary"]; ok {
		if err := json.Unmarshal(s, &summary); err != nil {
			return diff, "", &Error{Field: "summary", Raw: raw, Err: errNotAString}
		}
		delete(top, "summary")
	}

	changes := top
	if c, ok := top["changes"]; ok {
		for key := range top {
			if key != "changes" {
				return diff, "", &Error{Field: key, Raw: raw, Err: errFieldNotEditable}
			}
		}
		changes = nil
		if err := json.Unmarshal(c, &changes); err != nil {
			return diff, "", &Error{Field: "changes", Raw: raw,
				Err: fmt.Errorf("%w: changes must be an object", agendaerrors.ErrMalformedResponse)}
		}
	}

	for key, value := range changes {
		field := strings.ToLower(strings.TrimSpace(key))
		if !isEditable(field) {
			return diff, "", &Error{Field: key, Raw: raw, Err: errFieldNotEditable}
		}
		if string(value) == "null" {
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return diff, "", &Error{Field: field, Raw: raw, Err: errNotAString}
		}

		switch field {
		case domain.FieldTitle:
			title := strings.TrimSpace(s)
			if title == "" {
				return diff, "", &Error{Field: field, Raw: raw, Err: errEmptyTitle}
			}
			diff.Title = &title
		case domain.FieldDescription:
			description := strings.TrimSpace(s)
			diff.Description = &description
		case domain.FieldPhase:
			phase, ok := constants.ParsePhase(s)
			if !ok {
				return diff, "", &Error{Field: field, Raw: raw, Err: fmt.Errorf("%w %q", errUnknownPhase, s)}
			}
			diff.Phase = &phase
		}
	}

	if diff.IsEmpty() {
		return diff, "", &Error{Raw: raw, Err: errNoChanges}
	}
	return diff, strings.TrimSpace(summary), nil
}

func isEditable(field string) bool {
	switch field {
	case domain.FieldTitle, domain.FieldDescription, domain.FieldPhase:
		return true
	}
	return false
}
