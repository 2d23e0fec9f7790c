package assist

import (
	"errors"
	"testing"

	"github.com/jonathan/skillfolio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()

	assert.Equal(t, types.SuggestionIdle, tr.Get(types.FieldKeySummary).Status)

	tk := tr.Begin(types.FieldKeySummary)
	assert.True(t, tr.InFlight(types.FieldKeySummary))

	assert.True(t, tr.Complete(tk, "better"))
	s := tr.Get(types.FieldKeySummary)
	assert.Equal(t, types.SuggestionAvailable, s.Status)
	assert.Equal(t, "better", s.Text)
	assert.Equal(t, types.FieldKeySummary, s.Field)
	assert.False(t, s.UpdatedAt.IsZero())

	tr.Dismiss(types.FieldKeySummary)
	assert.Equal(t, types.SuggestionIdle, tr.Get(types.FieldKeySummary).Status)
}

func TestTracker_Fail(t *testing.T) {
	tr := NewTracker()

	tk := tr.Begin(types.FieldKeySkills)
	assert.True(t, tr.Fail(tk, errors.New("boom")))

	s := tr.Get(types.FieldKeySkills)
	assert.Equal(t, types.SuggestionError, s.Status)
	assert.Equal(t, "boom", s.Error)
	assert.False(t, tr.InFlight(types.FieldKeySkills))
}

func TestTracker_LastWriterWins(t *testing.T) {
	tr := NewTracker()

	first := tr.Begin(types.FieldKeySummary)
	second := tr.Begin(types.FieldKeySummary)

	assert.False(t, tr.Complete(first, "stale"))
	assert.Equal(t, types.SuggestionLoading, tr.Get(types.FieldKeySummary).Status)

	assert.True(t, tr.Complete(second, "fresh"))
	assert.Equal(t, "fresh", tr.Get(types.FieldKeySummary).Text)

	assert.False(t, tr.Fail(first, errors.New("late failure")))
	assert.Equal(t, types.SuggestionAvailable, tr.Get(types.FieldKeySummary).Status)
}

func TestTracker_TryBegin(t *testing.T) {
	tr := NewTracker()

	tk, ok := tr.TryBegin(types.ProjectField(0))
	assert.True(t, ok)

	_, ok = tr.TryBegin(types.ProjectField(0))
	assert.False(t, ok)

	// other fields are independent
	_, ok = tr.TryBegin(types.ProjectField(1))
	assert.True(t, ok)

	tr.Clear(tk)
	_, ok = tr.TryBegin(types.ProjectField(0))
	assert.True(t, ok)
}

func TestTracker_DismissKeepsLoading(t *testing.T) {
	tr := NewTracker()
	tk := tr.Begin(types.FieldKeySummary)

	tr.Dismiss(types.FieldKeySummary)

	assert.True(t, tr.InFlight(types.FieldKeySummary))
	assert.True(t, tr.Complete(tk, "done"))
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker()
	tr.Complete(tr.Begin(types.FieldKeySummary), "x")
	tr.Begin(types.FieldKeySkills)
	tr.Get(types.ProjectField(0))

	snap := tr.Snapshot()
	if assert.Len(t, snap, 2) {
		assert.Equal(t, types.FieldKeySkills, snap[0].Field)
		assert.Equal(t, types.FieldKeySummary, snap[1].Field)
	}
}
