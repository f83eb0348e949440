package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Header
	}{
		{
			name: "title and description",
			doc:  "# Title\n\nDesc\n\n## Tasks\n",
			want: Header{Title: "Title", Description: "Desc\n\n## Tasks", Labels: []string{}},
		},
		{
			name: "leading blank lines",
			doc:  "\n\n  ## Deep title  \n\nBody",
			want: Header{Title: "Deep title", Description: "Body", Labels: []string{}},
		},
		{
			name: "title only",
			doc:  "# Lonely\n",
			want: Header{Title: "Lonely", Labels: []string{}},
		},
		{
			name: "continuation lines before blank",
			doc:  "# Title\nsubtitle\n\nDesc",
			want: Header{Title: "Title", Description: "Desc", Labels: []string{}},
		},
		{
			name: "blank document",
			doc:  "   \n\n",
			want: Header{Labels: []string{}},
		},
		{
			name: "empty document",
			doc:  "",
			want: Header{Labels: []string{}},
		},
		{
			name: "labels",
			doc:  "# T\n\nLabels: api, , auth \n",
			want: Header{Title: "T", Description: "Labels: api, , auth", Labels: []string{"api", "auth"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHeader(tt.doc))
		})
	}
}

func TestParseLabels(t *testing.T) {
	assert.Equal(t, []string{"one"}, ParseLabels("Label: one\n"))
	assert.Equal(t, []string{"a", "b"}, ParseLabels("- Labels: a,b\nLabels: c\n"))
	assert.Equal(t, []string{}, ParseLabels("# No labels here\n"))
}

func TestParseFeatureID(t *testing.T) {
	assert.Equal(t, "auth", ParseFeatureID("# T\n\nFeature: auth\n"))
	assert.Equal(t, "", ParseFeatureID("# T\n\nThe Feature: is mid-line\n"))
	assert.Equal(t, "", ParseFeatureID("# T\n"))
}

func TestRenderDocument(t *testing.T) {
	h := Header{Title: "Add login", Description: "Users sign in.", Labels: []string{"auth", "web"}}
	doc := RenderDocument(h, "accounts")

	assert.Equal(t, "# Add login\n\nLabels: auth, web\nFeature: accounts\n\nUsers sign in.\n\n## Tasks\n"+DeveloperNote+"\n\n", doc)

	parsed := ParseHeader(doc)
	assert.Equal(t, "Add login", parsed.Title)
	assert.Equal(t, []string{"auth", "web"}, parsed.Labels)
	assert.Equal(t, "accounts", ParseFeatureID(doc))
	assert.Empty(t, DecodeTasks(doc))

	merged, err := MergeTasks(doc, []Task{{Description: "Build form"}})
	require.NoError(t, err)
	assert.Equal(t, "# Add login\n\nLabels: auth, web\nFeature: accounts\n\nUsers sign in.\n\n## Tasks\n"+DeveloperNote+"\n\n- [ ] Build form\n", merged)
}

func TestRenderDocumentMetadataWinsOverBody(t *testing.T) {
	h := Header{
		Title:       "Imported",
		Description: "Feature: search\nSee Labels: misc",
		Labels:      []string{"bug"},
	}
	doc := RenderDocument(h, "accounts")

	assert.Equal(t, []string{"bug"}, ParseLabels(doc))
	assert.Equal(t, "accounts", ParseFeatureID(doc))
}

func TestRenderDocumentMinimal(t *testing.T) {
	doc := RenderDocument(Header{Title: " Bare "}, "")
	assert.Equal(t, "# Bare\n\n## Tasks\n"+DeveloperNote+"\n\n", doc)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a\r\n", "\n"}, splitLines("a\r\n\n"))
	assert.Equal(t, "\r\n", lineEnding("x\r\n"))
	assert.Equal(t, "", lineEnding("x"))
}

func TestSummary(t *testing.T) {
	h := ParseHeader("# T\n\nIntro line.\nMore.\n\nLabels: a\n\n## Tasks\n- [ ] x\n")
	assert.Equal(t, "Intro line.\nMore.\n\nLabels: a", Summary(h.Description))
	assert.Equal(t, "", Summary("## Tasks\n- [ ] x\n"))
	assert.Equal(t, "plain", Summary("  plain\n"))
}
