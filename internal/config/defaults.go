package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/agenda/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These match the defaults registered on every viper instance by setDefaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:        constants.DefaultModel,
			APIKeyEnvVar: constants.DefaultAPIKeyEnvVar,
			Timeout:      constants.DefaultLLMTimeout,
			MaxTokens:    constants.DefaultMaxTokens,
			MaxAttempts:  constants.MaxRetryAttempts,
			Temperature: TemperatureConfig{
				Plan:    constants.DefaultPlanTemperature,
				Analyze: constants.DefaultAnalyzeTemperature,
				Edit:    constants.DefaultEditTemperature,
				Execute: constants.DefaultExecuteTemperature,
			},
		},
		Planner: PlannerConfig{
			DefaultSkill:      constants.SkillIntermediate.String(),
			MaxTasks:          constants.MaxPlanTasks,
			AskClarifications: true,
		},
		Execution: ExecutionConfig{
			TaskTimeout: constants.DefaultTaskTimeout,
			DefaultMode: constants.RunModeConfirm.String(),
		},
		Tools: ToolsConfig{
			Enabled: constants.AllTools(),
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key_env_var", d.LLM.APIKeyEnvVar)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout.String())
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.max_attempts", d.LLM.MaxAttempts)
	v.SetDefault("llm.temperature.plan", d.LLM.Temperature.Plan)
	v.SetDefault("llm.temperature.analyze", d.LLM.Temperature.Analyze)
	v.SetDefault("llm.temperature.edit", d.LLM.Temperature.Edit)
	v.SetDefault("llm.temperature.execute", d.LLM.Temperature.Execute)

	v.SetDefault("planner.default_skill", d.Planner.DefaultSkill)
	v.SetDefault("planner.max_tasks", d.Planner.MaxTasks)
	v.SetDefault("planner.ask_clarifications", d.Planner.AskClarifications)

	v.SetDefault("execution.task_timeout", d.Execution.TaskTimeout.String())
	v.SetDefault("execution.default_mode", d.Execution.DefaultMode)

	v.SetDefault("tools.enabled", d.Tools.Enabled)

	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.path", "")
}
