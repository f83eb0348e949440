package story

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a story.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}
}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusInProgress, "in_progress", "doing":
		return StatusInProgress, nil
	case StatusReview:
		return StatusReview, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q, must be one of: todo, in-progress, review, done", s)
}

// Type is the kind of story a record describes.
type Type string

const (
	TypeUserStory Type = "user-story"
	TypeTask      Type = "task"
	TypeBug       Type = "bug"
)

// Types lists every story type in category scan order.
func Types() []Type {
	return []Type{TypeUserStory, TypeTask, TypeBug}
}

// ParseType converts a string into a Type. Plural and short forms are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user-story", "user-stories", "story", "stories":
		return TypeUserStory, nil
	case "task", "tasks":
		return TypeTask, nil
	case "bug", "bugs":
		return TypeBug, nil
	}
	return "", fmt.Errorf("invalid story type %q, must be one of: user-story, task, bug", s)
}

// Task is a single checklist entry.
type Task struct {
	// ID is the 1-based position of the task in the document. It is reassigned
	// on every decode and must not be persisted as an identity.
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
	// PRNumber links the task to a pull request; 0 means no link.
	PRNumber int `json:"pr_number,omitempty" yaml:"pr_number,omitempty"`
}

// Header is the origin-agnostic part of a record: what a markdown file and a
// remote issue both provide.
type Header struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Labels      []string `json:"labels" yaml:"labels"`
}

// Story is a fully parsed story record.
type Story struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Type        Type     `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	FeatureID   string   `json:"feature_id,omitempty" yaml:"feature_id,omitempty"`
	Tasks       []Task   `json:"tasks" yaml:"tasks"`
	Status      Status   `json:"status" yaml:"status"`
	Labels      []string `json:"labels" yaml:"labels"`
	// Path is the backing file the record was loaded from.
	Path string `json:"path" yaml:"path"`
}

// Feature is a parsed feature record. Features have no checklist.
type Feature struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Labels      []string `json:"labels" yaml:"labels"`
	Path        string   `json:"path" yaml:"path"`
}

// Task returns a pointer to the task with the given positional ID, or nil.
func (s *Story) Task(id int) *Task {
	if id < 1 || id > len(s.Tasks) {
		return nil
	}
	return &s.Tasks[id-1]
}

// AddTask appends a new open task and re-derives the status. The task is
// stored the way it decodes once saved.
func (s *Story) AddTask(description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, fmt.Errorf("task description is empty")
	}
	if strings.ContainsAny(description, "\r\n") {
		return Task{}, fmt.Errorf("task description must be a single line")
	}
	task := Task{ID: len(s.Tasks) + 1, Description: description}
	// A trailing "(#N)" is the pull request link, as on reload.
	if parsed, ok := parseChecklistLine(FormatTask(task)); ok {
		task.Description, task.PRNumber = parsed.Description, parsed.PRNumber
	}
	if task.Description == "" {
		return Task{}, fmt.Errorf("task description is empty")
	}
	s.Tasks = append(s.Tasks, task)
	s.Status = DeriveStatus(s.Tasks)
	return task, nil
}

// SetCompleted checks or unchecks a task and re-derives the status.
func (s *Story) SetCompleted(id int, completed bool) error {
	t := s.Task(id)
	if t == nil {
		return fmt.Errorf("task %d not found in story %q (has %d tasks)", id, s.ID, len(s.Tasks))
	}
	t.Completed = completed
	s.Status = DeriveStatus(s.Tasks)
	return nil
}

// LinkPR attaches a pull request number to a task.
func (s *Story) LinkPR(id, pr int) error {
	if pr < 0 {
		return fmt.Errorf("invalid pull request number %d", pr)
	}
	t := s.Task(id)
	if t == nil {
		return fmt.Errorf("task %d not found in story %q (has %d tasks)", id, s.ID, len(s.Tasks))
	}
	t.PRNumber = pr
	return nil
}

// OpenTasks returns the tasks that are not completed.
func (s *Story) OpenTasks() []Task {
	var open []Task
	for _, t := range s.Tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open
}
