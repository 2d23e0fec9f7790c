package assist

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillfolio/internal/draft"
	"github.com/jonathan/skillfolio/internal/types"
)

// Policy decides what happens to a successful AI result. One policy applies
// to every assisted field of a deployment.
type Policy string

const (
	// PolicyAutoApply writes the result straight into the draft
	PolicyAutoApply Policy = "auto-apply"
	// PolicySuggestOnly keeps the result as a suggestion until the user accepts it
	PolicySuggestOnly Policy = "suggest-only"
)

// ParsePolicy converts a configured policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAutoApply, PolicySuggestOnly:
		return p, nil
	}
	return "", fmt.Errorf("unknown AI policy %q (want %s or %s)", s, PolicyAutoApply, PolicySuggestOnly)
}

// maxParallel bounds concurrent requests in ImproveAll.
const maxParallel = 4

// Service is the AI service as seen by the Assistant. *Gateway implements it.
type Service interface {
	ImproveSummary(ctx context.Context, summary string) (string, error)
	SuggestSkills(ctx context.Context, skills []string) ([]string, error)
	ImproveProject(ctx context.Context, description string) (string, error)
}

// Outcome is the result of one field request in ImproveAll.
type Outcome struct {
	Field      types.FieldKey
	Suggestion types.Suggestion
	Err        error
}

// Assistant connects a draft Store to the AI service under one Policy.
type Assistant struct {
	store   *draft.Store
	service Service
	tracker *Tracker
	policy  Policy
}

// NewAssistant creates an Assistant. An empty policy means suggest-only.
func NewAssistant(store *draft.Store, service Service, policy Policy) *Assistant {
	if policy == "" {
		policy = PolicySuggestOnly
	}
	return &Assistant{
		store:   store,
		service: service,
		tracker: NewTracker(),
		policy:  policy,
	}
}

// Policy returns the response policy in effect.
func (a *Assistant) Policy() Policy {
	return a.policy
}

// Tracker exposes per-field suggestion state.
func (a *Assistant) Tracker() *Tracker {
	return a.tracker
}

// Improve runs one AI request for field and settles its state. A second call
// while the field is loading returns ErrInFlight. On failure the draft is left
// exactly as it was and the error is recorded on the field.
func (a *Assistant) Improve(ctx context.Context, field types.FieldKey) (types.Suggestion, error) {
	projectIdx, isProject := field.ProjectIndex()
	if !isProject && field != types.FieldKeySummary && field != types.FieldKeySkills {
		return types.Suggestion{}, fmt.Errorf("unknown AI field %q", field)
	}

	current := a.store.Draft()
	if isProject && projectIdx >= len(current.Projects) {
		return types.Suggestion{}, &draft.IndexError{Section: types.SectionProjects, Index: projectIdx, Len: len(current.Projects)}
	}

	ticket, ok := a.tracker.TryBegin(field)
	if !ok {
		return a.tracker.Get(field), ErrInFlight
	}

	switch {
	case field == types.FieldKeySummary:
		text, err := a.service.ImproveSummary(ctx, current.Summary)
		if err != nil {
			return a.fail(ticket, err)
		}
		return a.settleText(ticket, current.Summary, text, func(old, s string) (bool, error) {
			return a.store.ReplaceSummary(old, s), nil
		})
	case field == types.FieldKeySkills:
		skills, err := a.service.SuggestSkills(ctx, current.Skills)
		if err != nil {
			return a.fail(ticket, err)
		}
		return a.settleSkills(ticket, skills)
	default:
		before := current.Projects[projectIdx].Description
		text, err := a.service.ImproveProject(ctx, before)
		if err != nil {
			return a.fail(ticket, err)
		}
		return a.settleText(ticket, before, text, func(old, s string) (bool, error) {
			return a.store.ReplaceProjectDescription(projectIdx, old, s)
		})
	}
}

// ImproveAsync runs Improve on its own goroutine and reports through done.
func (a *Assistant) ImproveAsync(ctx context.Context, field types.FieldKey, done func(types.Suggestion, error)) {
	go func() {
		s, err := a.Improve(ctx, field)
		if done != nil {
			done(s, err)
		}
	}()
}

// ImproveAll requests the summary, the skills and every project description
// concurrently. One field failing does not cancel the others.
func (a *Assistant) ImproveAll(ctx context.Context) []Outcome {
	fields := []types.FieldKey{types.FieldKeySummary, types.FieldKeySkills}
	for i := range a.store.Draft().Projects {
		fields = append(fields, types.ProjectField(i))
	}

	outcomes := make([]Outcome, len(fields))

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, field := range fields {
		g.Go(func() error {
			s, err := a.Improve(ctx, field)
			outcomes[i] = Outcome{Field: field, Suggestion: s, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Accept copies an available suggestion into the draft and returns the field to idle.
func (a *Assistant) Accept(field types.FieldKey) error {
	s := a.tracker.Get(field)
	if s.Status != types.SuggestionAvailable {
		return fmt.Errorf("%s: %w", field, ErrNoSuggestion)
	}

	switch {
	case field == types.FieldKeySummary:
		a.store.SetSummary(s.Text)
	case field == types.FieldKeySkills:
		a.store.AddSkills(s.Skills)
	default:
		idx, ok := field.ProjectIndex()
		if !ok {
			return fmt.Errorf("unknown AI field %q", field)
		}
		if err := a.store.SetProjectDescription(idx, s.Text); err != nil {
			return err
		}
	}

	a.tracker.Dismiss(field)
	return nil
}

// Dismiss discards a suggestion or error without touching the draft.
func (a *Assistant) Dismiss(field types.FieldKey) {
	a.tracker.Dismiss(field)
}

func (a *Assistant) fail(tk Ticket, err error) (types.Suggestion, error) {
	log.Printf("[assist] %s: %v", tk.Field, err)
	a.tracker.Fail(tk, err)
	return a.tracker.Get(tk.Field), err
}

// settleText applies or stores a text result. An empty result, or one equal to
// the text that was sent, is a no-op: the field returns to idle and nothing is
// published. Under auto-apply the write only lands if the field still holds
// before; otherwise the result is kept as a suggestion. Results for a
// superseded ticket are dropped.
func (a *Assistant) settleText(tk Ticket, before, text string, apply func(old, text string) (bool, error)) (types.Suggestion, error) {
	if strings.TrimSpace(text) == "" || text == before {
		if !a.tracker.Clear(tk) {
			log.Printf("[assist] %s: dropping superseded result", tk.Field)
		}
		return a.tracker.Get(tk.Field), nil
	}

	if a.policy == PolicySuggestOnly {
		if !a.tracker.Complete(tk, text) {
			log.Printf("[assist] %s: dropping superseded result", tk.Field)
		}
		return a.tracker.Get(tk.Field), nil
	}

	if !a.tracker.Clear(tk) {
		log.Printf("[assist] %s: dropping superseded result", tk.Field)
		return a.tracker.Get(tk.Field), nil
	}
	applied, err := apply(before, text)
	if err != nil {
		return a.tracker.Get(tk.Field), err
	}
	if !applied {
		log.Printf("[assist] %s: field edited while loading, keeping result as a suggestion", tk.Field)
		a.tracker.Complete(tk, text)
		return a.tracker.Get(tk.Field), nil
	}
	return types.Suggestion{Field: tk.Field, Status: types.SuggestionIdle, Text: text}, nil
}

// settleSkills appends (auto-apply) or stores (suggest-only) suggested skills.
func (a *Assistant) settleSkills(tk Ticket, skills []string) (types.Suggestion, error) {
	if len(skills) == 0 {
		if !a.tracker.Clear(tk) {
			log.Printf("[assist] %s: dropping superseded result", tk.Field)
		}
		return a.tracker.Get(tk.Field), nil
	}
	if a.policy == PolicySuggestOnly {
		if !a.tracker.CompleteSkills(tk, skills) {
			log.Printf("[assist] %s: dropping superseded result", tk.Field)
		}
		return a.tracker.Get(tk.Field), nil
	}

	if !a.tracker.Clear(tk) {
		log.Printf("[assist] %s: dropping superseded result", tk.Field)
		return a.tracker.Get(tk.Field), nil
	}
	a.store.AddSkills(skills)
	return types.Suggestion{Field: tk.Field, Status: types.SuggestionIdle, Skills: skills}, nil
}
