package executor

import (
	"fmt"
	"strings"

	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
)

type outcomeReply struct {
	Status       string   `json:"status"`
	Narrative    string   `json:"narrative"`
	Output       string   `json:"output"`
	ActionsTaken []string `json:"actions_taken"`
	ToolsUsed    []string `json:"tools_used"`
	Reflection   string   `json:"reflection"`
}

// parseStatus maps a reported status onto success or failure.
func parseStatus(s string) (success, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "succeeded", "done", "completed", "complete":
		return true, true
	case "failure", "failed", "error", "blocked", "needs-follow-up", "needs_follow_up", "needs follow-up":
		return false, true
	}
	return false, false
}

// parseOutcome decodes an execute reply. Tool names the reply claims but
// that were not offered are dropped and returned separately.
func parseOutcome(raw string, tools domain.ToolContext) (*domain.Outcome, []string, error) {
	var reply outcomeReply
	if err := llm.DecodeJSON(raw, &reply); err != nil {
		return nil, nil, err
	}

	success, ok := parseStatus(reply.Status)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown status %q", agendaerrors.ErrMalformedResponse, reply.Status)
	}

	narrative := strings.TrimSpace(reply.Narrative)
	if narrative == "" {
		narrative = strings.TrimSpace(reply.Output)
	}
	if reflection := strings.TrimSpace(reply.Reflection); reflection != "" {
		if narrative != "" {
			narrative += "\n\n"
		}
		narrative += "Reflection: " + reflection
	}

	var actions []string
	for _, a := range reply.ActionsTaken {
		if a = strings.TrimSpace(a); a != "" {
			actions = append(actions, a)
		}
	}

	var used, unknown []string
	for _, name := range reply.ToolsUsed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if tools.Has(name) {
			used = append(used, name)
		} else {
			unknown = append(unknown, name)
		}
	}

	return &domain.Outcome{
		Success:   success,
		Narrative: narrative,
		Actions:   actions,
		ToolsUsed: used,
	}, unknown, nil
}
