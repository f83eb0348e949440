package issues

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/storykit/internal/logging"
	"github.com/nibzard/storykit/internal/utils"
)

//go:embed issue.schema.json
var issueSchemaJSON string

const issueSchemaURL = "issue.schema.json"

// GHOptions configures a GHTracker.
type GHOptions struct {
	// Binary is the gh executable. Defaults to "gh".
	Binary string
	// MaxAttempts bounds every read-only gh call, first try included.
	// Defaults to 3.
	MaxAttempts int
	// Runner executes gh. Defaults to ExecRunner.
	Runner Runner
	Logger *log.Logger
	// NewBackOff builds the retry schedule. Defaults to exponential backoff.
	NewBackOff func() backoff.BackOff
}

// GHTracker implements Tracker with the GitHub CLI.
type GHTracker struct {
	binary      string
	maxAttempts int
	runner      Runner
	logger      *log.Logger
	newBackOff  func() backoff.BackOff
	schema      *jsonschema.Schema
	converter   *md.Converter
}

var _ Tracker = (*GHTracker)(nil)

// NewGHTracker returns a tracker that shells out to gh.
func NewGHTracker(opts GHOptions) (*GHTracker, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(issueSchemaURL, strings.NewReader(issueSchemaJSON)); err != nil {
		return nil, fmt.Errorf("load issue schema: %w", err)
	}
	schema, err := compiler.Compile(issueSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile issue schema: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	t := &GHTracker{
		binary:      opts.Binary,
		maxAttempts: opts.MaxAttempts,
		runner:      opts.Runner,
		logger:      opts.Logger,
		newBackOff:  opts.NewBackOff,
		schema:      schema,
		converter:   converter,
	}
	if t.binary == "" {
		t.binary = "gh"
	}
	if t.maxAttempts < 1 {
		t.maxAttempts = 3
	}
	if t.runner == nil {
		t.runner = ExecRunner{}
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}
	if t.newBackOff == nil {
		t.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		}
	}
	return t, nil
}

// restIssue is the subset of the REST issue payload storykit reads.
type restIssue struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	State    string  `json:"state"`
	HTMLURL  string  `json:"html_url"`
	Body     *string `json:"body"`
	BodyHTML *string `json:"body_html"`
	Labels   []struct {
		Name string `json:"name"`
	} `json:"labels"`
	PullRequest json.RawMessage `json:"pull_request"`
}

// FetchIssue reads an issue through the REST API. The rendered HTML body is
// converted back to GitHub-flavored markdown; the raw body is used when no
// rendering is returned.
func (t *GHTracker) FetchIssue(ctx context.Context, owner, repo string, number int) (Issue, error) {
	if err := checkTarget(owner, repo, number); err != nil {
		return Issue{}, err
	}
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", owner, repo, number)
	out, err := t.run(ctx, "api", endpoint, "-H", "Accept: application/vnd.github.full+json")
	if err != nil {
		return Issue{}, err
	}

	var doc any
	if err := json.Unmarshal(out, &doc); err != nil {
		return Issue{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := t.schema.Validate(doc); err != nil {
		return Issue{}, payloadError(err)
	}

	var raw restIssue
	if err := json.Unmarshal(out, &raw); err != nil {
		return Issue{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(raw.PullRequest) > 0 && string(raw.PullRequest) != "null" {
		return Issue{}, fmt.Errorf("%s/%s#%d: %w", owner, repo, number, ErrPullRequest)
	}

	body, err := t.body(raw)
	if err != nil {
		return Issue{}, err
	}
	issue := Issue{
		Number: raw.Number,
		Title:  raw.Title,
		Body:   body,
		State:  raw.State,
		URL:    raw.HTMLURL,
		Labels: make([]string, 0, len(raw.Labels)),
	}
	for _, l := range raw.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	t.logger.Debug("fetched issue", "repo", owner+"/"+repo, "number", number, "labels", len(issue.Labels))
	return issue, nil
}

func (t *GHTracker) body(raw restIssue) (string, error) {
	if raw.BodyHTML != nil && strings.TrimSpace(*raw.BodyHTML) != "" {
		markdown, err := t.converter.ConvertString(*raw.BodyHTML)
		if err != nil {
			return "", fmt.Errorf("convert issue body: %w", err)
		}
		return strings.TrimSpace(markdown), nil
	}
	if raw.Body != nil {
		return strings.TrimSpace(*raw.Body), nil
	}
	return "", nil
}

// AddIssueComment posts body as a new comment on the issue.
func (t *GHTracker) AddIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	if err := checkTarget(owner, repo, number); err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body is empty")
	}
	// Posting is not idempotent; a retry after a lost response would comment twice.
	_, err := t.runner.Run(ctx, body, t.binary, "issue", "comment", strconv.Itoa(number),
		"--repo", owner+"/"+repo, "--body-file", "-")
	if err != nil {
		return err
	}
	t.logger.Info("commented on issue", "repo", owner+"/"+repo, "number", number)
	return nil
}

// run invokes gh, retrying transient failures with backoff. Only read-only
// calls go through run.
func (t *GHTracker) run(ctx context.Context, args ...string) ([]byte, error) {
	var out []byte
	attempt := 0
	op := func() error {
		attempt++
		var err error
		out, err = t.runner.Run(ctx, "", t.binary, args...)
		if err == nil {
			return nil
		}
		var ce *CommandError
		if errors.As(err, &ce) && ce.Transient() {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		t.logger.Warn("gh failed, retrying", "attempt", attempt, "wait", wait, "err", err)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return out, nil
}

func checkTarget(owner, repo string, number int) error {
	if owner == "" || repo == "" {
		return fmt.Errorf("repository is not configured: set github.owner and github.repo or pass --repo")
	}
	if number < 1 {
		return fmt.Errorf("invalid issue number %d", number)
	}
	return nil
}

func payloadError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	pe := &PayloadError{}
	collectSchemaErrors(pe, ve)
	return pe
}

func collectSchemaErrors(pe *PayloadError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		path := utils.JSONPointerToPath(err.InstanceLocation)
		if path == "" {
			path = "(root)"
		}
		pe.Problems = append(pe.Problems, fmt.Sprintf("%s: %s", path, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(pe, cause)
	}
}
