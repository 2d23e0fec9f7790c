package types

import "time"

// SuggestionStatus is the transient AI state of one assisted field
type SuggestionStatus string

// Suggestion states
const (
	SuggestionIdle      SuggestionStatus = "idle"
	SuggestionLoading   SuggestionStatus = "loading"
	SuggestionAvailable SuggestionStatus = "available"
	SuggestionError     SuggestionStatus = "error"
)

// Suggestion is the per-field AI state shown beside a form field.
// Text is set for summary and project fields, Skills for the skills field.
type Suggestion struct {
	Field     FieldKey         `json:"field"`
	Status    SuggestionStatus `json:"status"`
	Text      string           `json:"text,omitempty"`
	Skills    []string         `json:"skills,omitempty"`
	Error     string           `json:"error,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}
