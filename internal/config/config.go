// Package config provides configuration management for agenda with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (AGENDA_* prefix)
//  3. Project config (.agenda/config.yaml)
//  4. Global config (~/.agenda/config.yaml)
//  5. Built-in defaults
//
// A .env file in the working directory is loaded into the process environment
// first, without overriding variables that are already set.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for agenda.
type Config struct {
	// LLM contains settings for the language model collaborator.
	LLM LLMConfig `yaml:"llm" mapstructure:"llm"`

	// Planner contains plan generation settings.
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`

	// Execution contains settings for running plans.
	Execution ExecutionConfig `yaml:"execution" mapstructure:"execution"`

	// Tools lists the capabilities offered to the executing model.
	Tools ToolsConfig `yaml:"tools" mapstructure:"tools"`

	// Journal controls the SQLite execution history.
	Journal JournalConfig `yaml:"journal" mapstructure:"journal"`
}

// LLMConfig holds language model settings.
type LLMConfig struct {
	// Model is the chat model name (e.g., "gpt-4o-mini").
	Model string `yaml:"model" mapstructure:"model"`

	// APIKeyEnvVar names the environment variable holding the API key.
	// Keys are never stored in config files.
	APIKeyEnvVar string `yaml:"api_key_env_var" mapstructure:"api_key_env_var"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single request, retries included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxAttempts is 1 (no retry) or 2 (one retry of transient failures).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// Temperature holds the sampling temperature per call site.
	Temperature TemperatureConfig `yaml:"temperature" mapstructure:"temperature"`
}

// TemperatureConfig holds sampling temperatures per call site.
type TemperatureConfig struct {
	Plan    float64 `yaml:"plan" mapstructure:"plan"`
	Analyze float64 `yaml:"analyze" mapstructure:"analyze"`
	Edit    float64 `yaml:"edit" mapstructure:"edit"`
	Execute float64 `yaml:"execute" mapstructure:"execute"`
}

// PlannerConfig holds plan generation settings.
type PlannerConfig struct {
	// DefaultSkill is used when the user does not pick a skill level.
	DefaultSkill string `yaml:"default_skill" mapstructure:"default_skill"`

	// MaxTasks caps how many tasks a plan may contain.
	MaxTasks int `yaml:"max_tasks" mapstructure:"max_tasks"`

	// AskClarifications enables the clarifying-question step before planning.
	AskClarifications bool `yaml:"ask_clarifications" mapstructure:"ask_clarifications"`
}

// ExecutionConfig holds settings for running plans.
type ExecutionConfig struct {
	// TaskTimeout bounds the execution step of one task.
	TaskTimeout time.Duration `yaml:"task_timeout" mapstructure:"task_timeout"`

	// DefaultMode is "confirm" or "auto".
	DefaultMode string `yaml:"default_mode" mapstructure:"default_mode"`
}

// ToolsConfig lists the capabilities offered to the executing model.
type ToolsConfig struct {
	Enabled []string `yaml:"enabled" mapstructure:"enabled"`
}

// JournalConfig controls the SQLite execution history.
type JournalConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path is the database file. Empty means ~/.agenda/journal.db.
	Path string `yaml:"path" mapstructure:"path"`
}
