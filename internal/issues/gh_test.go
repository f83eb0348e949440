package issues

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	stdin string
	name  string
	args  []string
}

// fakeRunner replays canned results in order.
type fakeRunner struct {
	results []result
	calls   []call
}

type result struct {
	out string
	err error
}

func (f *fakeRunner) Run(_ context.Context, stdin, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{stdin: stdin, name: name, args: args})
	if len(f.results) == 0 {
		return nil, errors.New("unexpected call")
	}
	r := f.results[0]
	f.results = f.results[1:]
	return []byte(r.out), r.err
}

func newTracker(t *testing.T, runner Runner, attempts int) *GHTracker {
	t.Helper()
	tr, err := NewGHTracker(GHOptions{
		Binary:      "/usr/local/bin/gh",
		MaxAttempts: attempts,
		Runner:      runner,
		NewBackOff:  func() backoff.BackOff { return &backoff.ZeroBackOff{} },
	})
	require.NoError(t, err)
	return tr
}

const issuePayload = `{
  "number": 42,
  "title": "Login  failś on Safari",
  "state": "open",
  "html_url": "https://github.com/acme/shop/issues/42",
  "body": "raw body",
  "body_html": "<p>Steps:</p><ol><li>Open <strong>login</strong></li><li>Submit</li></ol>",
  "labels": [{"name": "bug"}, {"name": " web "}]
}`

func TestFetchIssue(t *testing.T) {
	runner := &fakeRunner{results: []result{{out: issuePayload}}}
	tr := newTracker(t, runner, 3)

	issue, err := tr.FetchIssue(context.Background(), "acme", "shop", 42)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/usr/local/bin/gh", runner.calls[0].name)
	assert.Equal(t, []string{"api", "repos/acme/shop/issues/42", "-H", "Accept: application/vnd.github.full+json"}, runner.calls[0].args)

	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "open", issue.State)
	assert.Equal(t, "https://github.com/acme/shop/issues/42", issue.URL)
	assert.Equal(t, []string{"bug", " web "}, issue.Labels)
	assert.Contains(t, issue.Body, "Steps:")
	assert.Contains(t, issue.Body, "1. Open **login**")
	assert.Contains(t, issue.Body, "2. Submit")
}

func TestFetchIssueRawBodyFallback(t *testing.T) {
	payload := `{"number": 3, "title": "T", "state": "closed", "html_url": "u", "body": "  - [ ] keep markdown  ", "body_html": null, "labels": []}`
	tr := newTracker(t, &fakeRunner{results: []result{{out: payload}}}, 1)

	issue, err := tr.FetchIssue(context.Background(), "acme", "shop", 3)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] keep markdown", issue.Body)
	assert.Empty(t, issue.Labels)
}

func TestFetchIssueRejectsPullRequest(t *testing.T) {
	payload := `{"number": 5, "title": "PR", "state": "open", "html_url": "u", "labels": [], "pull_request": {"url": "x"}}`
	tr := newTracker(t, &fakeRunner{results: []result{{out: payload}}}, 1)

	_, err := tr.FetchIssue(context.Background(), "acme", "shop", 5)
	assert.ErrorIs(t, err, ErrPullRequest)
}

func TestFetchIssueInvalidPayload(t *testing.T) {
	payload := `{"number": "forty-two", "state": "merged", "html_url": "u", "labels": [{}]}`
	tr := newTracker(t, &fakeRunner{results: []result{{out: payload}}}, 1)

	_, err := tr.FetchIssue(context.Background(), "acme", "shop", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	var pe *PayloadError
	require.ErrorAs(t, err, &pe)
	joined := strings.Join(pe.Problems, "\n")
	assert.Contains(t, joined, "number")
	assert.Contains(t, joined, "labels[0]")

	_, err = newTracker(t, &fakeRunner{results: []result{{out: "not json"}}}, 1).
		FetchIssue(context.Background(), "acme", "shop", 42)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestFetchIssueRetriesTransientFailures(t *testing.T) {
	transient := &CommandError{Args: []string{"api"}, ExitCode: 1, Stderr: "HTTP 502: Bad Gateway"}
	runner := &fakeRunner{results: []result{{err: transient}, {err: transient}, {out: issuePayload}}}
	tr := newTracker(t, runner, 3)

	issue, err := tr.FetchIssue(context.Background(), "acme", "shop", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Len(t, runner.calls, 3)
}

func TestFetchIssueGivesUpAfterMaxAttempts(t *testing.T) {
	transient := &CommandError{Args: []string{"api"}, ExitCode: 1, Stderr: "connection reset by peer"}
	runner := &fakeRunner{results: []result{{err: transient}, {err: transient}, {out: issuePayload}}}
	tr := newTracker(t, runner, 2)

	_, err := tr.FetchIssue(context.Background(), "acme", "shop", 42)
	require.Error(t, err)
	assert.Len(t, runner.calls, 2)
	var ce *CommandError
	assert.ErrorAs(t, err, &ce)
}

func TestFetchIssueDoesNotRetryPermanentFailures(t *testing.T) {
	notFound := &CommandError{Args: []string{"api"}, ExitCode: 1, Stderr: "gh: Not Found (HTTP 404)"}
	runner := &fakeRunner{results: []result{{err: notFound}, {out: issuePayload}}}
	tr := newTracker(t, runner, 5)

	_, err := tr.FetchIssue(context.Background(), "acme", "shop", 42)
	require.Error(t, err)
	assert.Len(t, runner.calls, 1)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchIssueValidatesTarget(t *testing.T) {
	runner := &fakeRunner{}
	tr := newTracker(t, runner, 1)

	_, err := tr.FetchIssue(context.Background(), "", "shop", 1)
	assert.ErrorContains(t, err, "repository is not configured")
	_, err = tr.FetchIssue(context.Background(), "acme", "shop", 0)
	assert.ErrorContains(t, err, "invalid issue number")
	assert.Empty(t, runner.calls)
}

func TestAddIssueComment(t *testing.T) {
	runner := &fakeRunner{results: []result{{out: "https://github.com/acme/shop/issues/42#issuecomment-1\n"}}}
	tr := newTracker(t, runner, 1)

	require.NoError(t, tr.AddIssueComment(context.Background(), "acme", "shop", 42, "Progress: 2/3 tasks"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "Progress: 2/3 tasks", runner.calls[0].stdin)
	assert.Equal(t, []string{"issue", "comment", "42", "--repo", "acme/shop", "--body-file", "-"}, runner.calls[0].args)

	assert.ErrorContains(t, tr.AddIssueComment(context.Background(), "acme", "shop", 42, "  "), "empty")
}

func TestAddIssueCommentIsNotRetried(t *testing.T) {
	timeout := &CommandError{Args: []string{"issue", "comment"}, ExitCode: 1, Stderr: "request timed out"}
	runner := &fakeRunner{results: []result{{err: timeout}, {out: "ok\n"}}}
	tr := newTracker(t, runner, 3)

	err := tr.AddIssueComment(context.Background(), "acme", "shop", 42, "Progress: 2/3 tasks")
	require.Error(t, err)
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Transient())
	assert.Len(t, runner.calls, 1)
}

func TestCommandErrorTransient(t *testing.T) {
	assert.True(t, (&CommandError{ExitCode: 1, Stderr: "request timed out"}).Transient())
	assert.True(t, (&CommandError{ExitCode: 1, Stderr: "You have exceeded a secondary rate limit"}).Transient())
	assert.False(t, (&CommandError{ExitCode: 1, Stderr: "HTTP 401: Bad credentials"}).Transient())
	assert.False(t, (&CommandError{ExitCode: -1, Stderr: "timeout"}).Transient())

	err := &CommandError{Args: []string{"issue", "view"}, ExitCode: 1, Stderr: " boom \n"}
	assert.Equal(t, "gh issue view: boom", err.Error())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "", "storykit-no-such-binary-xyz")
	require.Error(t, err)
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, -1, ce.ExitCode)
	assert.False(t, ce.Transient())
}
