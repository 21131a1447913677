package prompts

import "github.com/mrz1836/agenda/internal/domain"

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers. Each call site has a system prompt and a user prompt.
const (
	// Plan generation
	PlanSystem     PromptID = "plan/system"
	PlanGenerate   PromptID = "plan/generate"
	PlanCorrective PromptID = "plan/corrective"

	// Clarifying questions
	AnalyzeSystem PromptID = "analyze/system"
	AnalyzeGoal   PromptID = "analyze/goal"

	// Edit interpretation
	EditSystem    PromptID = "edit/system"
	EditInterpret PromptID = "edit/interpret"

	// Task execution
	ExecuteSystem PromptID = "execute/system"
	ExecuteTask   PromptID = "execute/task"
)

// PlanData contains input data for plan generation.
type PlanData struct {
	// Goal is the user's free-text goal.
	Goal string
	// Skill is the skill level name (beginner, intermediate, expert).
	Skill string
	// Clarifications are answered clarifying questions, possibly empty.
	Clarifications []domain.Clarification
	// Phases lists the allowed phase values.
	Phases []string
	// MaxTasks caps the plan size.
	MaxTasks int
}

// CorrectiveData contains input data for the corrective planning retry.
type CorrectiveData struct {
	PlanData
	// Problem describes why the previous response was rejected.
	Problem string
	// Previous is the rejected response, truncated.
	Previous string
}

// AnalyzeData contains input data for the clarifying-question analysis.
type AnalyzeData struct {
	Goal         string
	MaxQuestions int
}

// EditData contains input data for edit interpretation.
type EditData struct {
	Task    domain.Task
	Request string
	Phases  []string
}

// ExecuteData contains input data for task execution.
type ExecuteData struct {
	Task  domain.Task
	Tools []domain.Capability
}
