package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/common/*.tmpl templates/plan/*.tmpl templates/analyze/*.tmpl templates/edit/*.tmpl templates/execute/*.tmpl
var templateFS embed.FS

// registry holds parsed templates and provides thread-safe access.
type registry struct {
	mu        sync.RWMutex
	templates map[PromptID]*template.Template
	sources   map[PromptID]string
	funcMap   template.FuncMap
}

// globalRegistry is the singleton registry instance.
//
//nolint:gochecknoglobals // singleton pattern for template registry
var globalRegistry = &registry{
	templates: make(map[PromptID]*template.Template),
	sources:   make(map[PromptID]string),
	funcMap:   defaultFuncMap(),
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
		"inc": func(i int) int {
			return i + 1
		},
		"lower": strings.ToLower,
	}
}

//nolint:gochecknoinits // required to preload embedded templates at package initialization
func init() {
	if err := globalRegistry.loadAll(); err != nil {
		// Templates are embedded, so a failure here is a build defect.
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
}

func (r *registry) loadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	commonTemplates, err := r.loadCommonTemplates()
	if err != nil {
		return fmt.Errorf("loading common templates: %w", err)
	}

	return fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") || strings.Contains(p, "/common/") {
			return nil
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		promptID := pathToPromptID(p)
		tmpl := template.New(string(promptID)).Funcs(r.funcMap).Option("missingkey=error")
		for name, commonTmpl := range commonTemplates {
			if _, addErr := tmpl.AddParseTree(name, commonTmpl.Tree); addErr != nil {
				return fmt.Errorf("adding common template %s: %w", name, addErr)
			}
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return fmt.Errorf("parsing template %s: %w", p, err)
		}

		r.templates[promptID] = tmpl
		r.sources[promptID] = string(content)
		return nil
	})
}

// loadCommonTemplates loads the shared partials, named "common/<file>".
func (r *registry) loadCommonTemplates() (map[string]*template.Template, error) {
	common := make(map[string]*template.Template)

	entries, err := templateFS.ReadDir("templates/common")
	if err != nil {
		return common, nil //nolint:nilerr // common templates are optional
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		p := path.Join("templates/common", entry.Name())
		content, err := templateFS.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading common template %s: %w", p, err)
		}
		name := "common/" + strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(r.funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parsing common template %s: %w", p, err)
		}
		common[name] = tmpl
	}
	return common, nil
}

// pathToPromptID converts templates/plan/system.tmpl to plan/system.
func pathToPromptID(p string) PromptID {
	id := strings.TrimPrefix(p, "templates/")
	return PromptID(strings.TrimSuffix(id, ".tmpl"))
}

func (r *registry) get(id PromptID) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}

func (r *registry) getSource(id PromptID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return source, nil
}

func (r *registry) list() []PromptID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]PromptID, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	return ids
}
