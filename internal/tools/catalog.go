// Package tools describes the capabilities the executing model may claim to
// use. agenda never invokes them; the set is passed through to the execution
// prompt and used to filter the tools an outcome reports.
package tools

import (
	"fmt"
	"strings"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

//nolint:gochecknoglobals // fixed catalogue
var descriptions = map[string]string{
	constants.ToolCreateFile: "Create a file with the given name and content",
	constants.ToolReadFile:   "Read the content of an existing file",
	constants.ToolListFiles:  "List the files in the working directory",
	constants.ToolCalculate:  "Evaluate an arithmetic expression",
	constants.ToolLogAction:  "Record an action in the execution log",
}

// Describe returns the description of a known capability.
func Describe(name string) (string, bool) {
	d, ok := descriptions[name]
	return d, ok
}

// Catalog returns every known capability in a stable order.
func Catalog() []domain.Capability {
	names := constants.AllTools()
	out := make([]domain.Capability, 0, len(names))
	for _, name := range names {
		out = append(out, domain.Capability{Name: name, Description: descriptions[name]})
	}
	return out
}

// Context builds the tool context for the enabled capability names. Names are
// matched case-insensitively and duplicates are dropped. An unknown name
// fails with errors.ErrConfigInvalidTools.
func Context(enabled []string) (domain.ToolContext, error) {
	seen := make(map[string]bool, len(enabled))
	caps := make([]domain.Capability, 0, len(enabled))
	for _, raw := range enabled {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		d, ok := Describe(name)
		if !ok {
			return domain.ToolContext{}, fmt.Errorf("%w: unknown tool %q", agendaerrors.ErrConfigInvalidTools, raw)
		}
		seen[name] = true
		caps = append(caps, domain.Capability{Name: name, Description: d})
	}
	return domain.ToolContext{Capabilities: caps}, nil
}
