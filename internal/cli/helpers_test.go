package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/llm"
	"github.com/mrz1836/agenda/internal/llm/llmtest"
)

const (
	planReply = `{"tasks":[
		{"title":"Outline the CLI","description":"List the commands","phase":"planning","reasoning":"scope first"},
		{"title":"Write the code","description":"Implement the commands","phase":"development","reasoning":"build it"}
	]}`
	successReply = `{"status":"success","narrative":"Done.","actions_taken":["wrote main.go"],"tools_used":["create_file"]}`
	failureReply = `{"status":"failed","narrative":"Could not finish."}`
)

// testDeps runs commands against client with a journal in a temp dir.
func testDeps(t *testing.T, client *llmtest.Client) (*commandDeps, *config.Config) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cfg := config.DefaultConfig()
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	deps := &commandDeps{
		loadConfig: func(context.Context) (*config.Config, error) { return cfg, nil },
		newClient: func(*config.LLMConfig, zerolog.Logger) (llm.Client, error) {
			return client, nil
		},
		initLogger:  func(bool, bool) zerolog.Logger { return zerolog.Nop() },
		interactive: func() bool { return false },
	}
	return deps, cfg
}

func runCLI(t *testing.T, deps *commandDeps, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{}, deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
