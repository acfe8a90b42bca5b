package confirm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// FormPrompt renders an interactive terminal form for the new-task
// confirmation. Ctrl-C or dismissal counts as cancel, not as an error.
type FormPrompt struct{}

func (FormPrompt) Confirm(ctx context.Context, d Defaults) (Response, error) {
	var (
		summary     = d.Summary
		description = d.Description
		deadline    = ""
		tags        = strings.Join(d.Tags, ", ")
		assignee    = d.Assignee
		accepted    = true
	)
	if !d.Deadline.IsZero() {
		deadline = d.Deadline.Format("2006-01-02")
	}
	now := time.Now()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Summary").
				Description("Issue title").
				Value(&summary).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("summary is required")
					}
					return nil
				}),

			huh.NewText().
				Title("Description").
				Value(&description),

			huh.NewInput().
				Title("Deadline").
				Description("YYYY-MM-DD or e.g. \"tomorrow\" (empty for none)").
				Value(&deadline).
				Validate(func(s string) error {
					_, err := ParseDeadline(s, now)
					return err
				}),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated (optional)").
				Value(&tags),

			huh.NewInput().
				Title("Assignee").
				Description("Optional; tab completes configured defaults").
				Suggestions(d.AssigneeSuggestions).
				Value(&assignee),

			huh.NewConfirm().
				Title("Create issue?").
				Affirmative("Create").
				Negative("Cancel").
				Value(&accepted),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Response{}, nil
		}
		return Response{}, fmt.Errorf("confirmation form: %w", err)
	}
	if !accepted {
		return Response{}, nil
	}

	due, err := ParseDeadline(deadline, now)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Confirmed:   true,
		Summary:     strings.TrimSpace(summary),
		Description: description,
		Deadline:    due,
		Tags:        SplitTags(tags),
		Assignee:    strings.TrimSpace(assignee),
	}, nil
}
