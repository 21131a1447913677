// Package constants provides centralized constant values used throughout agenda.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by agenda for organizing data.
const (
	// AgendaHome is the hidden directory name where agenda stores all its data.
	// This directory is created in the user's home directory.
	AgendaHome = ".agenda"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// ProjectConfigDir is the per-project directory holding config overrides.
	ProjectConfigDir = ".agenda"
)

// Timeout configurations for collaborator calls.
const (
	// DefaultLLMTimeout bounds a single request to the language model.
	DefaultLLMTimeout = 2 * time.Minute

	// DefaultTaskTimeout bounds the execution step of one task, retries included.
	DefaultTaskTimeout = 3 * time.Minute
)

// Retry configuration defaults for transient collaborator failures.
const (
	// MaxRetryAttempts is the maximum number of attempts for a single
	// collaborator request, counting the first one.
	MaxRetryAttempts = 2

	// InitialBackoff is the delay before the retry.
	InitialBackoff = 1 * time.Second
)

// Language model defaults.
const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultAPIKeyEnvVar names the environment variable holding the API key.
	DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

	// DefaultMaxTokens caps the completion length of every request.
	DefaultMaxTokens = 4000

	// DefaultPlanTemperature is used for plan generation.
	DefaultPlanTemperature = 0.7

	// DefaultAnalyzeTemperature is used for clarifying-question analysis.
	DefaultAnalyzeTemperature = 0.3

	// DefaultEditTemperature is used for edit interpretation.
	DefaultEditTemperature = 0.3

	// DefaultExecuteTemperature is used for task execution.
	DefaultExecuteTemperature = 0.5
)

// Planning limits.
const (
	// MaxClarifyingQuestions caps the questions asked before planning.
	MaxClarifyingQuestions = 3

	// MaxPlanTasks caps the number of tasks accepted from a single plan.
	MaxPlanTasks = 50
)

// Plan file schema.
const (
	// PlanSchemaVersion is written to every exported plan file.
	PlanSchemaVersion = "1"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated files.
	LogCompress = true
)
