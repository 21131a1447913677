package planner

import (
	"fmt"
	"strings"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
	"github.com/mrz1836/agenda/internal/llm"
)

type planReply struct {
	Tasks []taskReply `json:"tasks"`
}

type taskReply struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phase       string `json:"phase"`
	Reasoning   string `json:"reasoning"`
}

// parsePlan decodes a plan reply. Both {"tasks":[...]} and a bare array are
// accepted. Phases are matched case-insensitively.
func parsePlan(raw string) ([]domain.NewTask, error) {
	doc := llm.ExtractJSON(raw)

	var items []taskReply
	if strings.HasPrefix(doc, "[") {
		if err := llm.DecodeJSON(doc, &items); err != nil {
			return nil, err
		}
	} else {
		var reply planReply
		if err := llm.DecodeJSON(doc, &reply); err != nil {
			return nil, err
		}
		items = reply.Tasks
	}

	if len(items) == 0 {
		return nil, agendaerrors.ErrEmptyPlan
	}

	out := make([]domain.NewTask, 0, len(items))
	for i, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: task %d has no title", agendaerrors.ErrMalformedResponse, i+1)
		}
		phase, ok := constants.ParsePhase(item.Phase)
		if !ok {
			return nil, fmt.Errorf("%w: task %d has unknown phase %q", agendaerrors.ErrMalformedResponse, i+1, item.Phase)
		}
		out = append(out, domain.NewTask{
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			Phase:       phase,
			Reasoning:   strings.TrimSpace(item.Reasoning),
		})
	}
	return out, nil
}
