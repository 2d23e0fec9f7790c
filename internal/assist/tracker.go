package assist

import (
	"sort"
	"sync"
	"time"

	"github.com/jonathan/skillfolio/internal/types"
)

// Ticket identifies one request for one field. A newer Begin for the same
// field supersedes older tickets.
type Ticket struct {
	Field types.FieldKey
	gen   uint64
}

type fieldState struct {
	gen        uint64
	suggestion types.Suggestion
}

// Tracker holds the suggestion state of every AI-assisted field.
type Tracker struct {
	mu     sync.Mutex
	fields map[types.FieldKey]*fieldState
	now    func() time.Time
}

// NewTracker creates an empty tracker; every field starts idle.
func NewTracker() *Tracker {
	return &Tracker{
		fields: make(map[types.FieldKey]*fieldState),
		now:    time.Now,
	}
}

func (t *Tracker) state(field types.FieldKey) *fieldState {
	st, ok := t.fields[field]
	if !ok {
		st = &fieldState{suggestion: types.Suggestion{Field: field, Status: types.SuggestionIdle}}
		t.fields[field] = st
	}
	return st
}

// Begin marks field as loading and returns the ticket for the new request.
// Last writer wins: an earlier outstanding ticket becomes stale.
func (t *Tracker) Begin(field types.FieldKey) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.begin(field)
}

// TryBegin is Begin unless the field is already loading.
func (t *Tracker) TryBegin(field types.FieldKey) (Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state(field).suggestion.Status == types.SuggestionLoading {
		return Ticket{}, false
	}
	return t.begin(field), true
}

func (t *Tracker) begin(field types.FieldKey) Ticket {
	st := t.state(field)
	st.gen++
	st.suggestion = types.Suggestion{Field: field, Status: types.SuggestionLoading, UpdatedAt: t.now()}
	return Ticket{Field: field, gen: st.gen}
}

// Complete records a text suggestion. It returns false if tk is stale.
func (t *Tracker) Complete(tk Ticket, text string) bool {
	return t.settle(tk, types.Suggestion{Status: types.SuggestionAvailable, Text: text})
}

// CompleteSkills records a skills suggestion. It returns false if tk is stale.
func (t *Tracker) CompleteSkills(tk Ticket, skills []string) bool {
	return t.settle(tk, types.Suggestion{Status: types.SuggestionAvailable, Skills: skills})
}

// Fail records a request failure. It returns false if tk is stale.
func (t *Tracker) Fail(tk Ticket, err error) bool {
	return t.settle(tk, types.Suggestion{Status: types.SuggestionError, Error: err.Error()})
}

// Clear resets the field to idle if tk is still current.
func (t *Tracker) Clear(tk Ticket) bool {
	return t.settle(tk, types.Suggestion{Status: types.SuggestionIdle})
}

func (t *Tracker) settle(tk Ticket, s types.Suggestion) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.state(tk.Field)
	if st.gen != tk.gen {
		return false
	}
	s.Field = tk.Field
	s.UpdatedAt = t.now()
	st.suggestion = s
	return true
}

// Get returns the current state of field.
func (t *Tracker) Get(field types.FieldKey) types.Suggestion {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state(field).suggestion
}

// InFlight reports whether field has an outstanding request.
func (t *Tracker) InFlight(field types.FieldKey) bool {
	return t.Get(field).Status == types.SuggestionLoading
}

// Dismiss drops any suggestion or error for field and returns it to idle.
// A loading field is left alone.
func (t *Tracker) Dismiss(field types.FieldKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.state(field)
	if st.suggestion.Status == types.SuggestionLoading {
		return
	}
	st.gen++
	st.suggestion = types.Suggestion{Field: field, Status: types.SuggestionIdle, UpdatedAt: t.now()}
}

// Snapshot returns every non-idle field, ordered by field key.
func (t *Tracker) Snapshot() []types.Suggestion {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.Suggestion, 0, len(t.fields))
	for _, st := range t.fields {
		if st.suggestion.Status != types.SuggestionIdle {
			out = append(out, st.suggestion)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
