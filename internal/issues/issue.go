package issues

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nibzard/storykit/internal/story"
)

// Tracker is the remote issue source.
type Tracker interface {
	FetchIssue(ctx context.Context, owner, repo string, number int) (Issue, error)
	AddIssueComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Issue is a remote issue with its body already in markdown.
type Issue struct {
	Number int      `json:"number" yaml:"number"`
	Title  string   `json:"title" yaml:"title"`
	Body   string   `json:"body" yaml:"body"`
	State  string   `json:"state" yaml:"state"`
	URL    string   `json:"url" yaml:"url"`
	Labels []string `json:"labels" yaml:"labels"`
}

// taskHeadingPattern matches a level-two Tasks heading inside an issue body.
var taskHeadingPattern = regexp.MustCompile(`(?im)^##(\s*Tasks)`)

// Header converts the issue into the tuple the markdown parser produces.
// Text is NFC-normalized. A "## Tasks" heading in the body is demoted so the
// rendered record keeps a single Tasks section.
func (i Issue) Header() story.Header {
	labels := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		if l = norm.NFC.String(strings.TrimSpace(l)); l != "" {
			labels = append(labels, l)
		}
	}
	title := strings.Join(strings.Fields(norm.NFC.String(i.Title)), " ")
	body := norm.NFC.String(strings.TrimSpace(strings.ReplaceAll(i.Body, "\r\n", "\n")))
	body = taskHeadingPattern.ReplaceAllString(body, "###$1")
	return story.Header{
		Title:       title,
		Description: body,
		Labels:      labels,
	}
}
