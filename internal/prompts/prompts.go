// Package prompts renders story prompts for pasting into an external
// assistant.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/nibzard/storykit/internal/story"
)

const (
	ImplementPrompt = "implement"
	PlanPrompt      = "plan"

	templateExt = ".txt"
)

//go:embed templates/*.txt
var bundled embed.FS

// Names returns the available prompt names.
func Names() []string {
	return []string{ImplementPrompt, PlanPrompt}
}

// Store loads prompt templates, preferring files in an override directory
// over the bundled ones.
type Store struct {
	dir string
}

// NewStore creates a prompt store. An empty dir uses only bundled templates.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the override directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads a prompt template and reports where it came from.
func (s *Store) Load(name string) (text, source string, err error) {
	if name == "" {
		return "", "", errors.New("prompt name is empty")
	}
	file := name + templateExt
	if s.dir != "" {
		path := filepath.Join(s.dir, file)
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("read prompt %q: %w", name, err)
		}
	}
	data, err := bundled.ReadFile("templates/" + file)
	if err != nil {
		return "", "", fmt.Errorf("unknown prompt %q, must be one of: %s", name, strings.Join(Names(), ", "))
	}
	return string(data), "bundled", nil
}

// Feature is the feature data available to templates.
type Feature struct {
	ID          string
	Title       string
	Description string
}

// Data holds prompt template variables.
type Data struct {
	ID          string
	Title       string
	Type        story.Type
	Status      story.Status
	Description string
	Labels      []string
	Path        string
	Tasks       []story.Task
	OpenTasks   []story.Task
	Done        int
	Total       int
	Feature     Feature
	Now         string
}

// NewData builds prompt data for st. f may be nil.
func NewData(st *story.Story, f *story.Feature, now time.Time) Data {
	done, total := story.Progress(st.Tasks)
	d := Data{
		ID:          st.ID,
		Title:       st.Title,
		Type:        st.Type,
		Status:      st.Status,
		Description: story.Summary(st.Description),
		Labels:      st.Labels,
		Path:        st.Path,
		Tasks:       st.Tasks,
		OpenTasks:   st.OpenTasks(),
		Done:        done,
		Total:       total,
		Now:         now.UTC().Format(time.RFC3339),
	}
	if f != nil {
		d.Feature = Feature{ID: f.ID, Title: f.Title, Description: f.Description}
	}
	return d
}

// Renderer renders templates with strict missing-key behavior.
type Renderer struct {
	store *Store
}

// NewRenderer creates a prompt renderer.
func NewRenderer(store *Store) *Renderer {
	return &Renderer{store: store}
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Render loads and renders a prompt template with required variable checks.
func (r *Renderer) Render(name string, data Data) (string, error) {
	if r == nil || r.store == nil {
		return "", errors.New("prompt renderer is not initialized")
	}
	raw, _, err := r.store.Load(name)
	if err != nil {
		return "", err
	}
	if err := validateRequired(name, data); err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

type requiredVar int

const (
	reqID requiredVar = iota
	reqTitle
	reqPath
	reqNow
	reqOpenTasks
)

var requiredByPrompt = map[string][]requiredVar{
	ImplementPrompt: {reqID, reqTitle, reqPath, reqOpenTasks},
	PlanPrompt:      {reqID, reqTitle, reqPath, reqNow},
}

func validateRequired(name string, data Data) error {
	for _, req := range requiredByPrompt[name] {
		switch req {
		case reqID:
			if data.ID == "" {
				return fmt.Errorf("prompt %q requires ID", name)
			}
		case reqTitle:
			if data.Title == "" {
				return fmt.Errorf("prompt %q requires Title", name)
			}
		case reqPath:
			if data.Path == "" {
				return fmt.Errorf("prompt %q requires Path", name)
			}
		case reqNow:
			if data.Now == "" {
				return fmt.Errorf("prompt %q requires Now", name)
			}
		case reqOpenTasks:
			if len(data.OpenTasks) == 0 {
				return fmt.Errorf("story %q has no open tasks", data.ID)
			}
		default:
			return fmt.Errorf("prompt %q has unsupported requirement", name)
		}
	}
	return nil
}
