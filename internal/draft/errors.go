package draft

import (
	"fmt"

	"github.com/jonathan/skillfolio/internal/types"
)

// FieldError indicates an edit addressed a section or field the draft does not have
type FieldError struct {
	Section types.Section
	Field   string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("draft: section %q is not editable this way", e.Section)
	}
	return fmt.Sprintf("draft: unknown field %q in section %q", e.Field, e.Section)
}

// IndexError indicates a list edit outside the current bounds; the edit was ignored
type IndexError struct {
	Section types.Section
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("draft: %s index %d out of range (len %d)", e.Section, e.Index, e.Len)
}
