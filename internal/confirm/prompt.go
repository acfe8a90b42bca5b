// Package confirm is the user-confirmation surface: the engine suspends a
// resolution pass on Confirm and continues only once the user accepts or
// cancels. Cancellation is an ordinary response, not an error.
package confirm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Defaults pre-fills the confirmation form for one new-task mention.
type Defaults struct {
	Summary     string
	Description string
	Deadline    time.Time
	Tags        []string
	Assignee    string

	// AssigneeSuggestions are quick-fill shortcuts from configuration; the
	// assignee field itself starts empty.
	AssigneeSuggestions []string
}

// Response carries the edited fields back. Confirmed false means the user
// cancelled or dismissed; all other fields are then meaningless.
type Response struct {
	Confirmed   bool
	Summary     string
	Description string
	Deadline    time.Time
	Tags        []string
	Assignee    string
}

// Prompt blocks until the user accepts or cancels. There is no timeout; a
// pending confirmation can stay suspended indefinitely.
type Prompt interface {
	Confirm(ctx context.Context, d Defaults) (Response, error)
}

// AutoCancel is the non-interactive fallback used when no terminal is
// attached: every confirmation is declined.
type AutoCancel struct{}

func (AutoCancel) Confirm(context.Context, Defaults) (Response, error) {
	return Response{}, nil
}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Tomorrow is the default deadline for a new task: the day after now, pinned
// to UTC midnight so the day boundary never depends on the platform zone.
func Tomorrow(now time.Time) time.Time {
	d := now.UTC().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDeadline turns form input into a UTC-midnight timestamp. Strict
// YYYY-MM-DD is tried first, then natural language ("tomorrow", "next
// friday") relative to now.
func ParseDeadline(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", input); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	r, err := dateParser.Parse(input, now)
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("cannot parse deadline %q", input)
	}
	t := r.Time.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// SplitTags parses the comma-separated tags field, dropping blanks.
func SplitTags(input string) []string {
	var tags []string
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
