package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/errors"
)

// newViperInstance creates a new Viper instance with the environment
// variable prefix (AGENDA_), key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("AGENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", errors.ErrConfigLoad, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: failed to read %s: %w", errors.ErrConfigLoad, path, err)
	}
	return nil
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are expected and not an error.
func Load(ctx context.Context) (*Config, error) {
	if err := LoadDotEnv(constants.DotEnvFileName); err != nil {
		return nil, err
	}

	globalPath := ""
	if p, err := GlobalConfigPath(); err == nil && fileExists(p) {
		globalPath = p
	}
	projectPath := ""
	if p := ProjectConfigPath(); fileExists(p) {
		projectPath = p
	}

	cfg, err := LoadFromPaths(ctx, projectPath, globalPath)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("llm.model", cfg.LLM.Model).
		Dur("llm.timeout", cfg.LLM.Timeout).
		Dur("execution.task_timeout", cfg.Execution.TaskTimeout).
		Strs("tools.enabled", cfg.Tools.Enabled).
		Str("global_config", globalPath).
		Str("project_config", projectPath).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths. Either path
// can be empty to skip that level. The project file merges over the global one.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: failed to read global config %s: %w", errors.ErrConfigLoad, globalConfigPath, err)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: failed to read project config %s: %w", errors.ErrConfigLoad, projectConfigPath, err)
		}
	}

	return unmarshalAndValidate(v)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

func applyOverrides(cfg, overrides *Config) {
	if overrides.LLM.Model != "" {
		cfg.LLM.Model = overrides.LLM.Model
	}
	if overrides.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = overrides.LLM.BaseURL
	}
	if overrides.LLM.Timeout != 0 {
		cfg.LLM.Timeout = overrides.LLM.Timeout
	}
	if overrides.Planner.DefaultSkill != "" {
		cfg.Planner.DefaultSkill = overrides.Planner.DefaultSkill
	}
	if overrides.Execution.DefaultMode != "" {
		cfg.Execution.DefaultMode = overrides.Execution.DefaultMode
	}
	if overrides.Execution.TaskTimeout != 0 {
		cfg.Execution.TaskTimeout = overrides.Execution.TaskTimeout
	}
	if len(overrides.Tools.Enabled) > 0 {
		cfg.Tools.Enabled = overrides.Tools.Enabled
	}
	if overrides.Journal.Path != "" {
		cfg.Journal.Path = overrides.Journal.Path
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
