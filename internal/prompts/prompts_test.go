package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/nibzard/storykit/internal/story"
)

func sampleStory() *story.Story {
	tasks := []story.Task{
		{ID: 1, Description: "Cart", Completed: true},
		{ID: 2, Description: "Payment form"},
		{ID: 3, Description: "Receipt email", PRNumber: 5},
	}
	return &story.Story{
		ID:          "12",
		Title:       "Checkout flow",
		Type:        story.TypeUserStory,
		Description: "Let shoppers pay.",
		FeatureID:   "payments",
		Tasks:       tasks,
		Status:      story.DeriveStatus(tasks),
		Labels:      []string{"shop", "web"},
		Path:        "stories/user-stories/12.md",
	}
}

func sampleFeature() *story.Feature {
	return &story.Feature{ID: "payments", Title: "Payments", Description: "Everything money."}
}

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))

func TestNewData(t *testing.T) {
	data := NewData(sampleStory(), sampleFeature(), fixedNow)

	if data.Now != "2026-05-04T08:30:00Z" {
		t.Errorf("Now = %q, want UTC RFC3339", data.Now)
	}
	if data.Done != 1 || data.Total != 3 {
		t.Errorf("progress = %d/%d, want 1/3", data.Done, data.Total)
	}
	if len(data.OpenTasks) != 2 || data.OpenTasks[0].ID != 2 {
		t.Errorf("OpenTasks = %+v", data.OpenTasks)
	}
	if data.Feature.ID != "payments" {
		t.Errorf("Feature.ID = %q", data.Feature.ID)
	}

	noFeature := NewData(sampleStory(), nil, fixedNow)
	if noFeature.Feature != (Feature{}) {
		t.Errorf("Feature = %+v, want zero", noFeature.Feature)
	}
}

func TestRenderImplementGolden(t *testing.T) {
	r := NewRenderer(NewStore(""))
	out, err := r.Render(ImplementPrompt, NewData(sampleStory(), sampleFeature(), fixedNow))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "implement", []byte(out))
}

func TestRenderPlan(t *testing.T) {
	st := sampleStory()
	st.Description = ""
	out, err := NewRenderer(NewStore("")).Render(PlanPrompt, NewData(st, nil, fixedNow))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		"You are planning user-story 12: Checkout flow\n",
		"1. [x] Cart\n",
		"2. [ ] Payment form\n",
		`storykit task add 12 "<task description>"`,
		"Generated 2026-05-04T08:30:00Z.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan prompt missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Context:") || strings.Contains(out, "Feature:") {
		t.Errorf("plan prompt rendered empty sections:\n%s", out)
	}
}

func TestRenderMissingRequiredVariable(t *testing.T) {
	r := NewRenderer(NewStore(""))
	tests := []struct {
		name   string
		prompt string
		mutate func(*Data)
		want   string
	}{
		{"missing id", ImplementPrompt, func(d *Data) { d.ID = "" }, "requires ID"},
		{"missing title", PlanPrompt, func(d *Data) { d.Title = "" }, "requires Title"},
		{"missing path", PlanPrompt, func(d *Data) { d.Path = "" }, "requires Path"},
		{"missing now", PlanPrompt, func(d *Data) { d.Now = "" }, "requires Now"},
		{"no open tasks", ImplementPrompt, func(d *Data) { d.OpenTasks = nil }, "no open tasks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := NewData(sampleStory(), nil, fixedNow)
			tt.mutate(&data)
			_, err := r.Render(tt.prompt, data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Render() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestStoreOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plan.txt"), []byte("Plan {{.ID}} at {{.Now}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "review.txt"), []byte("Review {{.Title}} {{.Missing}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(dir)

	text, source, err := store.Load(PlanPrompt)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if source != filepath.Join(dir, "plan.txt") || !strings.HasPrefix(text, "Plan") {
		t.Errorf("Load() = %q from %q", text, source)
	}

	_, source, err = store.Load(ImplementPrompt)
	if err != nil || source != "bundled" {
		t.Errorf("Load(implement) source = %q, err = %v; want bundled fallback", source, err)
	}

	r := NewRenderer(store)
	out, err := r.Render(PlanPrompt, NewData(sampleStory(), nil, fixedNow))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "Plan 12 at 2026-05-04T08:30:00Z" {
		t.Errorf("Render() = %q", out)
	}

	_, err = r.Render("review", NewData(sampleStory(), nil, fixedNow))
	if err == nil || !strings.Contains(err.Error(), "Missing") {
		t.Errorf("expected missing field error, got %v", err)
	}
}

func TestStoreUnknownPrompt(t *testing.T) {
	_, _, err := NewStore("").Load("summary")
	if err == nil || !strings.Contains(err.Error(), "unknown prompt") {
		t.Fatalf("Load() error = %v", err)
	}
	if _, _, err := NewStore("").Load(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNilRenderer(t *testing.T) {
	var r *Renderer
	if _, err := r.Render(PlanPrompt, Data{}); err == nil {
		t.Fatal("expected error from nil renderer")
	}
}
