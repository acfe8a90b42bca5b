// Package service drives one resolution pass per edit event: classify the
// active line, confirm and create a new issue when a new-task mention is
// present, rewrite the mention into a link, then normalize bare references
// across the whole document.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracknote/tracknote/internal/config"
	"github.com/tracknote/tracknote/internal/confirm"
	"github.com/tracknote/tracknote/internal/host"
	"github.com/tracknote/tracknote/internal/markdown"
	"github.com/tracknote/tracknote/internal/mention"
	"github.com/tracknote/tracknote/internal/models"
	"github.com/tracknote/tracknote/internal/repository"
	"github.com/tracknote/tracknote/internal/tracker"
	"github.com/tracknote/tracknote/internal/ui"
)

// fallbackSummary titles an issue whose free text sanitized to nothing.
const fallbackSummary = "New task"

// Outcome is the terminal transition of a resolution pass. Every way a pass
// can end is a named value so hosts and tests can observe the state machine
// instead of inferring it from side effects.
type Outcome int

const (
	// OutcomeIgnored: the trigger character was not a space.
	OutcomeIgnored Outcome = iota
	// OutcomeDropped: another pass held the lock; the event is discarded,
	// never queued.
	OutcomeDropped
	// OutcomeNormalized: no new-task mention; only the global bare-reference
	// pass ran.
	OutcomeNormalized
	// OutcomeConfigurationMissing: a new-task mention was found but the
	// tracker credentials are absent.
	OutcomeConfigurationMissing
	// OutcomeCancelled: the user declined or dismissed the confirmation.
	OutcomeCancelled
	// OutcomeCreateFailed: the remote creation call failed; the document is
	// untouched.
	OutcomeCreateFailed
	// OutcomeLinked: the issue was created and the mention rewritten.
	OutcomeLinked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDropped:
		return "dropped"
	case OutcomeNormalized:
		return "normalized"
	case OutcomeConfigurationMissing:
		return "configuration-missing"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCreateFailed:
		return "create-failed"
	case OutcomeLinked:
		return "linked"
	}
	return "unknown"
}

// Result reports how a pass ended. Changed is true when the document was
// written back at least once.
type Result struct {
	Outcome Outcome
	TaskID  string
	Changed bool
}

type ResolutionService struct {
	editor   host.Editor
	prompt   confirm.Prompt
	client   tracker.Client
	settings config.Source
	history  *repository.HistoryRepository
	notifier ui.Notifier
	logger   *zap.Logger
	clock    func() time.Time

	// busy is the single-slot re-entrancy lock: at most one pass runs at a
	// time and concurrent edit events are dropped via a failed swap rather
	// than queued.
	busy atomic.Bool
}

func NewResolutionService(
	editor host.Editor,
	prompt confirm.Prompt,
	client tracker.Client,
	settings config.Source,
	history *repository.HistoryRepository,
	notifier ui.Notifier,
	logger *zap.Logger,
) *ResolutionService {
	if notifier == nil {
		notifier = ui.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolutionService{
		editor:   editor,
		prompt:   prompt,
		client:   client,
		settings: settings,
		history:  history,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
	}
}

// HandleEdit runs one resolution pass for an edit-completion event. It blocks
// while the confirmation prompt and the creation call are outstanding, so
// hosts with their own event loop should call it off that loop; events
// arriving in the meantime are dropped by the re-entrancy lock.
func (s *ResolutionService) HandleEdit(ctx context.Context, ev host.EditEvent) (Result, error) {
	if ev.Trigger != ' ' {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug("edit dropped, resolution already in flight", zap.String("source", ev.Source))
		return Result{Outcome: OutcomeDropped}, nil
	}
	defer s.busy.Store(false)

	passID := uuid.NewString()
	log := s.logger.With(zap.String("pass", passID), zap.String("source", ev.Source))
	settings := s.settings.Snapshot()

	doc, err := s.editor.Document()
	if err != nil {
		return Result{}, fmt.Errorf("read document: %w", err)
	}
	cursor, err := s.editor.Cursor()
	if err != nil {
		return Result{}, fmt.Errorf("read cursor: %w", err)
	}
	line, err := s.editor.Line(cursor.Line)
	if err != nil {
		return Result{}, fmt.Errorf("read active line: %w", err)
	}

	m, found := mention.FindNewTask(line)
	if !found {
		changed, err := s.normalize(doc, cursor, settings.BaseURL)
		if err != nil {
			return Result{Outcome: OutcomeNormalized, Changed: changed}, err
		}
		log.Debug("pass finished", zap.Stringer("outcome", OutcomeNormalized), zap.Bool("changed", changed))
		return Result{Outcome: OutcomeNormalized, Changed: changed}, nil
	}

	if !settings.HasCredentials() {
		s.notifier.Error("tracker credentials are not configured; set token and org_id first")
		log.Warn("new-task mention found but credentials are missing", zap.String("queue", m.QueueKey))
		return Result{Outcome: OutcomeConfigurationMissing}, nil
	}

	summary := markdown.Sanitize(m.Text)
	if summary == "" {
		summary = fallbackSummary
	}

	resp, err := s.prompt.Confirm(ctx, confirm.Defaults{
		Summary:             summary,
		Description:         settings.DescriptionTemplate,
		Deadline:            confirm.Tomorrow(s.clock()),
		AssigneeSuggestions: settings.DefaultAssignees,
	})
	if err != nil {
		// A broken prompt cancels the pass; the document stays untouched.
		return Result{Outcome: OutcomeCancelled}, fmt.Errorf("confirmation: %w", err)
	}
	if !resp.Confirmed {
		log.Debug("pass finished", zap.Stringer("outcome", OutcomeCancelled))
		return Result{Outcome: OutcomeCancelled}, nil
	}

	req := tracker.CreateIssueRequest{
		Summary:     resp.Summary,
		Queue:       tracker.Queue{Key: m.QueueKey},
		Description: resp.Description,
		Tags:        resp.Tags,
		Assignee:    resp.Assignee,
	}
	if !resp.Deadline.IsZero() {
		req.Deadline = resp.Deadline.UTC().Format(time.RFC3339)
	}

	issue, err := s.client.CreateIssue(ctx, req)
	if err != nil {
		s.notifier.Error("could not create issue: " + err.Error())
		log.Error("create issue failed", zap.String("queue", m.QueueKey), zap.Error(err))
		return Result{Outcome: OutcomeCreateFailed}, err
	}

	rewritten := rewriteLine(line, m, issue.Key, settings.BaseURL)
	updated, err := replaceLine(doc, cursor.Line, rewritten)
	if err != nil {
		return Result{Outcome: OutcomeCreateFailed, TaskID: issue.Key}, err
	}
	if err := s.editor.SetDocument(updated); err != nil {
		return Result{Outcome: OutcomeLinked, TaskID: issue.Key}, fmt.Errorf("write document: %w", err)
	}
	if err := s.editor.SetCursor(cursor); err != nil {
		return Result{Outcome: OutcomeLinked, TaskID: issue.Key, Changed: true}, fmt.Errorf("restore cursor: %w", err)
	}

	if _, err := s.normalize(updated, cursor, settings.BaseURL); err != nil {
		return Result{Outcome: OutcomeLinked, TaskID: issue.Key, Changed: true}, err
	}

	if s.history != nil {
		record := &repository.CreatedIssue{
			ID:       passID,
			TaskID:   issue.Key,
			QueueKey: m.QueueKey,
			Summary:  req.Summary,
			Source:   ev.Source,
		}
		if err := s.history.Record(record); err != nil {
			log.Warn("could not record created issue", zap.Error(err))
		}
	}

	s.notifier.Info("created " + issue.Key)
	log.Info("pass finished", zap.Stringer("outcome", OutcomeLinked), zap.String("task", issue.Key))
	return Result{Outcome: OutcomeLinked, TaskID: issue.Key, Changed: true}, nil
}

// normalize runs the global bare-reference pass and commits the result only
// when it differs from doc, restoring the cursor after any write.
func (s *ResolutionService) normalize(doc string, cursor host.Position, baseURL string) (bool, error) {
	normalized := mention.Normalize(doc, baseURL)
	if normalized == doc {
		return false, nil
	}
	if err := s.editor.SetDocument(normalized); err != nil {
		return false, fmt.Errorf("write document: %w", err)
	}
	if err := s.editor.SetCursor(cursor); err != nil {
		return true, fmt.Errorf("restore cursor: %w", err)
	}
	return true, nil
}

// rewriteLine replaces the matched new-task span with the rendered link,
// keeping the preceding free text and whatever followed the match.
func rewriteLine(line string, m models.Mention, taskID, baseURL string) string {
	link := mention.Link(taskID, baseURL)
	if m.Text != "" {
		link = m.Text + " " + link
	}
	return line[:m.Start] + link + line[m.End:]
}

func replaceLine(doc string, n int, line string) (string, error) {
	lines := strings.Split(doc, "\n")
	if n < 0 || n >= len(lines) {
		return "", fmt.Errorf("line %d out of range (document has %d lines)", n, len(lines))
	}
	lines[n] = line
	return strings.Join(lines, "\n"), nil
}
