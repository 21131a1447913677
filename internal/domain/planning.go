package domain

// Clarification is an answered clarifying question that shapes the plan.
type Clarification struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ClarifyingQuestion is a question the planner wants answered before
// generating a plan.
type ClarifyingQuestion struct {
	Question string `json:"question"`
	// Why explains what the answer changes about the plan.
	Why string `json:"why,omitempty"`
}

// GoalAnalysis is the result of asking whether a goal is specific enough
// to plan.
type GoalAnalysis struct {
	NeedsClarification bool                 `json:"needs_clarification"`
	Questions          []ClarifyingQuestion `json:"questions,omitempty"`
	Analysis           string               `json:"analysis,omitempty"`
}
