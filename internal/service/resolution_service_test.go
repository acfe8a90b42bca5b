package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknote/tracknote/internal/config"
	"github.com/tracknote/tracknote/internal/confirm"
	"github.com/tracknote/tracknote/internal/host"
	"github.com/tracknote/tracknote/internal/repository"
	"github.com/tracknote/tracknote/internal/tracker"
)

const baseURL = "https://tracker.example.com/"

func testSettings() config.Static {
	return config.Static{
		BaseURL:             baseURL,
		Token:               "token-1",
		OrgID:               "org-1",
		DescriptionTemplate: "Created from notes.",
		DefaultAssignees:    []string{"mira", "lee"},
	}
}

type stubPrompt struct {
	resp     confirm.Response
	err      error
	calls    int
	defaults confirm.Defaults
}

func (p *stubPrompt) Confirm(_ context.Context, d confirm.Defaults) (confirm.Response, error) {
	p.calls++
	p.defaults = d
	return p.resp, p.err
}

type blockingPrompt struct {
	started chan struct{}
	release chan struct{}
	calls   int
}

func (p *blockingPrompt) Confirm(context.Context, confirm.Defaults) (confirm.Response, error) {
	p.calls++
	close(p.started)
	<-p.release
	return confirm.Response{}, nil
}

type stubClient struct {
	issue *tracker.Issue
	err   error
	calls int
	req   tracker.CreateIssueRequest
}

func (c *stubClient) CreateIssue(_ context.Context, req tracker.CreateIssueRequest) (*tracker.Issue, error) {
	c.calls++
	c.req = req
	return c.issue, c.err
}

func spaceEvent() host.EditEvent {
	return host.EditEvent{Trigger: ' ', Source: "notes.md"}
}

func TestHandleEditCreatesAndLinks(t *testing.T) {
	buf := host.NewBuffer("intro line\nsome notes TASKS \ntrailing line")
	require.NoError(t, buf.SetCursor(host.Position{Line: 1, Ch: len("some notes TASKS ")}))
	start, _ := buf.Cursor()

	db, err := repository.InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()
	history := repository.NewHistoryRepository(db)

	prompt := &stubPrompt{resp: confirm.Response{
		Confirmed: true,
		Summary:   "Ship it",
		Deadline:  time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Tags:      []string{"notes"},
	}}
	client := &stubClient{issue: &tracker.Issue{Key: "TASKS-99"}}

	svc := NewResolutionService(buf, prompt, client, testSettings(), history, nil, nil)
	svc.clock = func() time.Time { return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) }

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLinked, res.Outcome)
	assert.Equal(t, "TASKS-99", res.TaskID)
	assert.True(t, res.Changed)

	line, err := buf.Line(1)
	require.NoError(t, err)
	assert.Equal(t, "some notes [TASKS-99](https://tracker.example.com/TASKS-99)", line)

	cur, _ := buf.Cursor()
	assert.Equal(t, start, cur, "cursor is restored after the rewrite")
	assert.Equal(t, 1, buf.Writes, "normalization after the rewrite found nothing to change")

	// Defaults handed to the confirmation.
	assert.Equal(t, "some notes", prompt.defaults.Summary)
	assert.Equal(t, "Created from notes.", prompt.defaults.Description)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), prompt.defaults.Deadline)
	assert.Equal(t, []string{"mira", "lee"}, prompt.defaults.AssigneeSuggestions)

	// Request built from the edited fields.
	assert.Equal(t, "Ship it", client.req.Summary)
	assert.Equal(t, "TASKS", client.req.Queue.Key)
	assert.Equal(t, "2026-08-27T00:00:00Z", client.req.Deadline)
	assert.Empty(t, client.req.Assignee)

	// The creation landed in the history journal.
	issues, err := history.ListRecent(5)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "TASKS-99", issues[0].TaskID)
	assert.Equal(t, "notes.md", issues[0].Source)
}

func TestHandleEditKeyAtLineStart(t *testing.T) {
	buf := host.NewBuffer("TASKS ")
	require.NoError(t, buf.SetCursor(host.Position{Line: 0, Ch: 6}))

	prompt := &stubPrompt{resp: confirm.Response{Confirmed: true, Summary: "New task"}}
	client := &stubClient{issue: &tracker.Issue{Key: "TASKS-5"}}
	svc := NewResolutionService(buf, prompt, client, testSettings(), nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLinked, res.Outcome)

	assert.Equal(t, "New task", prompt.defaults.Summary, "empty free text falls back")

	doc, _ := buf.Document()
	assert.Equal(t, "[TASKS-5](https://tracker.example.com/TASKS-5)", doc, "no leading space without preceding text")
}

func TestHandleEditSanitizesSummary(t *testing.T) {
	buf := host.NewBuffer("1. **Do** the `thing` TASKS ")
	require.NoError(t, buf.SetCursor(host.Position{Line: 0, Ch: 28}))

	prompt := &stubPrompt{resp: confirm.Response{}}
	svc := NewResolutionService(buf, prompt, &stubClient{}, testSettings(), nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, "Do the thing", prompt.defaults.Summary)
}

func TestHandleEditIgnoresOtherTriggers(t *testing.T) {
	buf := host.NewBuffer("some notes TASKS")
	svc := NewResolutionService(buf, &stubPrompt{}, &stubClient{}, testSettings(), nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), host.EditEvent{Trigger: 'x'})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Zero(t, buf.Writes)
}

func TestHandleEditNormalizesWithoutNewTask(t *testing.T) {
	t.Run("bare reference rewritten, trailing space kept", func(t *testing.T) {
		buf := host.NewBuffer("Fix the bug ABC-45 ")
		require.NoError(t, buf.SetCursor(host.Position{Line: 0, Ch: 19}))
		svc := NewResolutionService(buf, &stubPrompt{}, &stubClient{}, testSettings(), nil, nil, nil)

		res, err := svc.HandleEdit(context.Background(), spaceEvent())
		require.NoError(t, err)
		assert.Equal(t, OutcomeNormalized, res.Outcome)
		assert.True(t, res.Changed)

		doc, _ := buf.Document()
		assert.Equal(t, "Fix the bug [ABC-45](https://tracker.example.com/ABC-45) ", doc)

		cur, _ := buf.Cursor()
		assert.Equal(t, host.Position{Line: 0, Ch: 19}, cur)
	})

	t.Run("clean document is not written back", func(t *testing.T) {
		buf := host.NewBuffer("nothing to do here ")
		svc := NewResolutionService(buf, &stubPrompt{}, &stubClient{}, testSettings(), nil, nil, nil)

		res, err := svc.HandleEdit(context.Background(), spaceEvent())
		require.NoError(t, err)
		assert.Equal(t, OutcomeNormalized, res.Outcome)
		assert.False(t, res.Changed)
		assert.Zero(t, buf.Writes, "no gratuitous writes, no feedback loops")
	})

	t.Run("line with existing link never starts a creation", func(t *testing.T) {
		line := "see [ABC-1](https://tracker.example.com/ABC-1) TASKS "
		buf := host.NewBuffer(line)
		prompt := &stubPrompt{}
		svc := NewResolutionService(buf, prompt, &stubClient{}, testSettings(), nil, nil, nil)

		res, err := svc.HandleEdit(context.Background(), spaceEvent())
		require.NoError(t, err)
		assert.Equal(t, OutcomeNormalized, res.Outcome)
		assert.Zero(t, prompt.calls)
	})
}

func TestHandleEditConfigurationMissing(t *testing.T) {
	buf := host.NewBuffer("some notes TASKS ")
	prompt := &stubPrompt{}
	settings := testSettings()
	settings.Token = ""

	svc := NewResolutionService(buf, prompt, &stubClient{}, settings, nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfigurationMissing, res.Outcome)
	assert.Zero(t, prompt.calls, "no confirmation without credentials")
	assert.Zero(t, buf.Writes, "text is untouched")
}

func TestHandleEditCancelled(t *testing.T) {
	buf := host.NewBuffer("some notes TASKS ")
	client := &stubClient{}
	svc := NewResolutionService(buf, &stubPrompt{resp: confirm.Response{Confirmed: false}}, client, testSettings(), nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Zero(t, client.calls)
	assert.Zero(t, buf.Writes)
}

func TestHandleEditCreateFails(t *testing.T) {
	buf := host.NewBuffer("some notes TASKS ")
	client := &stubClient{err: errors.New("tracker error: queue does not exist")}
	prompt := &stubPrompt{resp: confirm.Response{Confirmed: true, Summary: "Ship it"}}

	svc := NewResolutionService(buf, prompt, client, testSettings(), nil, nil, nil)

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.Error(t, err)
	assert.Equal(t, OutcomeCreateFailed, res.Outcome)
	assert.Zero(t, buf.Writes, "failed creation leaves the document unmodified")

	t.Run("lock released after failure", func(t *testing.T) {
		res, err := svc.HandleEdit(context.Background(), spaceEvent())
		require.Error(t, err)
		assert.Equal(t, OutcomeCreateFailed, res.Outcome, "second pass ran, was not dropped")
	})
}

func TestHandleEditDropsConcurrentEvents(t *testing.T) {
	buf := host.NewBuffer("some notes TASKS ")
	prompt := &blockingPrompt{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewResolutionService(buf, prompt, &stubClient{}, testSettings(), nil, nil, nil)

	done := make(chan Result, 1)
	go func() {
		res, _ := svc.HandleEdit(context.Background(), spaceEvent())
		done <- res
	}()
	<-prompt.started

	res, err := svc.HandleEdit(context.Background(), spaceEvent())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, res.Outcome)
	assert.Equal(t, 1, prompt.calls, "no second confirmation while one is pending")
	assert.Zero(t, buf.Writes)

	close(prompt.release)
	first := <-done
	assert.Equal(t, OutcomeCancelled, first.Outcome)
}
