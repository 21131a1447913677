package config

import (
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/errors"
)

// maxTemperature is the upper bound accepted by OpenAI-compatible APIs.
const maxTemperature = 2.0

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return err
	}
	if err := validateExecutionConfig(cfg); err != nil {
		return err
	}
	return validateToolsConfig(&cfg.Tools)
}

func validateLLMConfig(cfg *LLMConfig) error {
	if cfg.Model == "" {
		return errors.Wrap(errors.ErrConfigInvalidLLM, "llm.model must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MaxTokens <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > constants.MaxRetryAttempts {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.max_attempts must be between 1 and %d, got %d", constants.MaxRetryAttempts, cfg.MaxAttempts)
	}

	temps := map[string]float64{
		"plan":    cfg.Temperature.Plan,
		"analyze": cfg.Temperature.Analyze,
		"edit":    cfg.Temperature.Edit,
		"execute": cfg.Temperature.Execute,
	}
	for name, value := range temps {
		if value < 0 || value > maxTemperature {
			return errors.Wrapf(errors.ErrConfigInvalidLLM,
				"llm.temperature.%s must be between 0 and 2, got %g", name, value)
		}
	}
	return nil
}

func validateExecutionConfig(cfg *Config) error {
	if cfg.Execution.TaskTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidExecution,
			"execution.task_timeout must be positive, got %s", cfg.Execution.TaskTimeout)
	}
	if _, ok := constants.ParseRunMode(cfg.Execution.DefaultMode); !ok {
		return errors.Wrapf(errors.ErrConfigInvalidExecution,
			"execution.default_mode must be confirm or auto, got %q", cfg.Execution.DefaultMode)
	}
	if _, ok := constants.ParseSkillLevel(cfg.Planner.DefaultSkill); !ok {
		return errors.Wrapf(errors.ErrConfigInvalidExecution,
			"planner.default_skill must be beginner, intermediate or expert, got %q", cfg.Planner.DefaultSkill)
	}
	if cfg.Planner.MaxTasks < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidExecution,
			"planner.max_tasks must be positive, got %d", cfg.Planner.MaxTasks)
	}
	return nil
}

func validateToolsConfig(cfg *ToolsConfig) error {
	for _, name := range cfg.Enabled {
		if !constants.IsKnownTool(name) {
			return errors.Wrapf(errors.ErrConfigInvalidTools, "unknown tool %q", name)
		}
	}
	return nil
}
