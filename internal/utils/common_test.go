package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitAndTrim(" a, b ,,c ", ","))
	assert.Equal(t, []string{}, SplitAndTrim("  ", ","))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"My Project":          "my-project",
		"  --storykit__v2-- ": "storykit-v2",
		"Ünïcode Täsk":        "ünïcode-täsk",
		"!!!":                 "",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"#/", ""},
		{"#/title", "title"},
		{"/labels/0/name", "labels[0].name"},
		{"#/a~1b/c~0d", "a/b.c~d"},
		{"#/0", "[0]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JSONPointerToPath(tt.ptr), tt.ptr)
	}
}
