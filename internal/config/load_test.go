package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromPaths_DefaultsWhenNoFiles(t *testing.T) {
	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPaths_ProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", `
llm:
  model: gpt-4o
  timeout: 90s
execution:
  default_mode: auto
tools:
  enabled: [calculate, read_file]
`)
	project := writeFile(t, dir, "project.yaml", `
llm:
  model: gpt-4.1-mini
  temperature:
    plan: 0.2
journal:
  enabled: false
`)

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature.Plan, 0.0001)
	assert.InDelta(t, constants.DefaultExecuteTemperature, cfg.LLM.Temperature.Execute, 0.0001)
	assert.Equal(t, "auto", cfg.Execution.DefaultMode)
	assert.Equal(t, []string{"calculate", "read_file"}, cfg.Tools.Enabled)
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoadFromPaths_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", "llm:\n  model: from-file\n")

	t.Setenv("AGENDA_LLM_MODEL", "from-env")
	t.Setenv("AGENDA_EXECUTION_TASK_TIMEOUT", "45s")

	cfg, err := LoadFromPaths(context.Background(), project, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.Execution.TaskTimeout)
}

func TestLoadFromPaths_MissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPaths(context.Background(), filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "nada.yaml"))
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultModel, cfg.LLM.Model)
}

func TestLoadFromPaths_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "llm: [unclosed")

	_, err := LoadFromPaths(context.Background(), bad, "")
	require.ErrorIs(t, err, errors.ErrConfigLoad)
}

func TestLoadFromPaths_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", "tools:\n  enabled: [teleport]\n")

	_, err := LoadFromPaths(context.Background(), project, "")
	require.ErrorIs(t, err, errors.ErrConfigInvalidTools)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "AGENDA_DOTENV_TEST_KEY"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	path := writeFile(t, dir, ".env", key+"=sk-from-dotenv\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "sk-from-dotenv", os.Getenv(key))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	const key = "AGENDA_DOTENV_EXISTING"
	t.Setenv(key, "from-shell")

	dir := t.TempDir()
	path := writeFile(t, dir, ".env", key+"=from-file\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-shell", os.Getenv(key))
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	applyOverrides(cfg, &Config{
		LLM:       LLMConfig{Model: "override"},
		Planner:   PlannerConfig{DefaultSkill: "expert"},
		Execution: ExecutionConfig{DefaultMode: "auto"},
	})

	assert.Equal(t, "override", cfg.LLM.Model)
	assert.Equal(t, "expert", cfg.Planner.DefaultSkill)
	assert.Equal(t, "auto", cfg.Execution.DefaultMode)
	assert.Equal(t, constants.DefaultLLMTimeout, cfg.LLM.Timeout, "zero overrides are ignored")
}

func TestJournalPath(t *testing.T) {
	explicit := JournalConfig{Path: "/tmp/j.db"}
	p, err := explicit.JournalPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", p)

	t.Setenv("AGENDA_HOME", "")
	t.Setenv("HOME", "/home/tester")
	p, err = (&JournalConfig{}).JournalPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".agenda", "journal.db"), p)

	t.Setenv("AGENDA_HOME", "/srv/agenda")
	p, err = (&JournalConfig{}).JournalPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/agenda", "journal.db"), p)
}
