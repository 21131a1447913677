package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Render executes a prompt template with the provided data and returns the
// result with surrounding whitespace trimmed.
//
// Example:
//
//	prompt, err := prompts.Render(prompts.PlanGenerate, prompts.PlanData{
//	    Goal:  "Launch a newsletter",
//	    Skill: "beginner",
//	})
func Render(id PromptID, data any) (string, error) {
	if err := ValidateData(id, data); err != nil {
		return "", err
	}

	tmpl, err := globalRegistry.get(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", id, err))
	}
	return strings.TrimSpace(buf.String()), nil
}

// List returns all registered prompt IDs in sorted order.
func List() []PromptID {
	ids := globalRegistry.list()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Exists checks if a prompt ID is registered.
func Exists(id PromptID) bool {
	_, err := globalRegistry.get(id)
	return err == nil
}

// GetTemplate returns the raw template source for a prompt ID.
func GetTemplate(id PromptID) (string, error) {
	return globalRegistry.getSource(id)
}

// ValidateData checks that data has the type the prompt expects.
// System prompts take no data and accept nil.
func ValidateData(id PromptID, data any) error {
	var ok bool
	var want string
	switch id {
	case PlanGenerate:
		_, ok = data.(PlanData)
		want = "PlanData"
	case PlanCorrective:
		_, ok = data.(CorrectiveData)
		want = "CorrectiveData"
	case AnalyzeGoal:
		_, ok = data.(AnalyzeData)
		want = "AnalyzeData"
	case EditInterpret:
		_, ok = data.(EditData)
		want = "EditData"
	case ExecuteTask:
		_, ok = data.(ExecuteData)
		want = "ExecuteData"
	default:
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: expected %s, got %T", ErrInvalidData, want, data)
	}
	return nil
}
