package domain

// PromptSpec is one request to the language model.
type PromptSpec struct {
	// Purpose names the call site (plan, analyze, edit, execute) for logging.
	Purpose string

	// System is the system instruction.
	System string

	// User is the user message.
	User string

	// Temperature controls sampling randomness.
	Temperature float32

	// MaxTokens caps the completion length. Zero means the client default.
	MaxTokens int

	// JSON asks the model for a single JSON object.
	JSON bool
}
