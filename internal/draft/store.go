// Package draft holds the resume-in-progress for one editing session and applies
// field-scoped edits to it.
//
// Every list mutation clones only the slice it touches, so snapshots returned by
// Draft stay valid and unrelated sections keep their backing arrays.
package draft

import (
	"strings"
	"sync"

	"github.com/jonathan/skillfolio/internal/types"
)

// Store owns one ResumeDraft and its completion progress.
type Store struct {
	mu       sync.Mutex
	draft    types.ResumeDraft
	progress types.Milestone
}

// NewStore creates a store holding an empty draft. Progress starts at the name milestone.
func NewStore() *Store {
	return &Store{
		draft:    types.NewResumeDraft(),
		progress: types.MilestoneName,
	}
}

// NewStoreFrom creates a store seeded with an existing draft, e.g. one loaded from a file.
func NewStoreFrom(d types.ResumeDraft) *Store {
	s := NewStore()
	d = d.Clone()
	d.Normalize()
	s.draft = d
	return s
}

// Draft returns a snapshot of the current draft. Callers must treat its slices as read-only.
func (s *Store) Draft() types.ResumeDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Progress returns the current completion milestone.
func (s *Store) Progress() types.Milestone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// SetProgressFloor raises progress to m. It never lowers it.
func (s *Store) SetProgressFloor(m types.Milestone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raise(m)
}

func (s *Store) raise(m types.Milestone) {
	if m > s.progress {
		s.progress = m
	}
}

func (s *Store) touch(section types.Section, field string) {
	if m, ok := types.MilestoneFor(section, field); ok {
		s.raise(m)
	}
}

// UpdatePersonal replaces exactly one key of the personal block. No validation is applied to value.
func (s *Store) UpdatePersonal(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.draft.Personal
	switch field {
	case types.FieldFullName:
		p.FullName = value
	case types.FieldEmail:
		p.Email = value
	case types.FieldPhone:
		p.Phone = value
	case types.FieldLocation:
		p.Location = value
	default:
		return &FieldError{Section: types.SectionPersonal, Field: field}
	}
	s.touch(types.SectionPersonal, field)
	return nil
}

// UpdateListItem replaces one field of one element of a repeatable section.
// An index outside the current bounds is ignored and reported as *IndexError.
func (s *Store) UpdateListItem(section types.Section, index int, field, value string) error {
	if !section.IsList() {
		return &FieldError{Section: section}
	}
	if !section.HasField(field) {
		return &FieldError{Section: section, Field: field}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.listLen(section); index < 0 || index >= n {
		return &IndexError{Section: section, Index: index, Len: n}
	}

	switch section {
	case types.SectionEducation:
		list := clone(s.draft.Education)
		e := &list[index]
		switch field {
		case types.FieldSchool:
			e.School = value
		case types.FieldDegree:
			e.Degree = value
		case types.FieldYear:
			e.Year = value
		}
		s.draft.Education = list
	case types.SectionProjects:
		list := clone(s.draft.Projects)
		p := &list[index]
		switch field {
		case types.FieldTitle:
			p.Title = value
		case types.FieldDescription:
			p.Description = value
		}
		s.draft.Projects = list
	case types.SectionCertificates:
		list := clone(s.draft.Certificates)
		c := &list[index]
		switch field {
		case types.FieldName:
			c.Name = value
		case types.FieldIssuer:
			c.Issuer = value
		case types.FieldDate:
			c.Date = value
		}
		s.draft.Certificates = list
	}
	s.touch(section, field)
	return nil
}

// SetProjectDescription replaces the description of project index.
func (s *Store) SetProjectDescription(index int, text string) error {
	return s.UpdateListItem(types.SectionProjects, index, types.FieldDescription, text)
}

// ReplaceProjectDescription sets the description of project index to text only
// if it still equals old. It reports whether the write happened.
func (s *Store) ReplaceProjectDescription(index int, old, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.draft.Projects); index < 0 || index >= n {
		return false, &IndexError{Section: types.SectionProjects, Index: index, Len: n}
	}
	if s.draft.Projects[index].Description != old {
		return false, nil
	}
	list := clone(s.draft.Projects)
	list[index].Description = text
	s.draft.Projects = list
	s.touch(types.SectionProjects, types.FieldDescription)
	return true, nil
}

// AddListItem appends one empty record to a repeatable section and returns its index.
func (s *Store) AddListItem(section types.Section) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch section {
	case types.SectionEducation:
		s.draft.Education = appendClone(s.draft.Education, types.Education{})
		return len(s.draft.Education) - 1, nil
	case types.SectionProjects:
		s.draft.Projects = appendClone(s.draft.Projects, types.Project{})
		return len(s.draft.Projects) - 1, nil
	case types.SectionCertificates:
		s.draft.Certificates = appendClone(s.draft.Certificates, types.Certificate{})
		return len(s.draft.Certificates) - 1, nil
	}
	return -1, &FieldError{Section: section}
}

// AddSkill trims raw and appends it. Blank input is ignored. Duplicates are kept.
func (s *Store) AddSkill(raw string) bool {
	skill := strings.TrimSpace(raw)
	if skill == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Skills = appendClone(s.draft.Skills, skill)
	s.raise(types.MilestoneSkills)
	return true
}

// AddSkills appends each entry under the AddSkill rules and returns how many were added.
func (s *Store) AddSkills(skills []string) int {
	added := 0
	for _, skill := range skills {
		if s.AddSkill(skill) {
			added++
		}
	}
	return added
}

// RemoveSkill removes the skill at index. Invalid indexes are a no-op.
func (s *Store) RemoveSkill(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.draft.Skills) {
		return false
	}
	list := make([]string, 0, len(s.draft.Skills)-1)
	list = append(list, s.draft.Skills[:index]...)
	list = append(list, s.draft.Skills[index+1:]...)
	s.draft.Skills = list
	return true
}

// SetSummary replaces the summary text.
func (s *Store) SetSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Summary = text
	s.raise(types.MilestoneSummary)
}

// ReplaceSummary sets the summary to text only if it still equals old.
// It reports whether the write happened.
func (s *Store) ReplaceSummary(old, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.Summary != old {
		return false
	}
	s.draft.Summary = text
	s.raise(types.MilestoneSummary)
	return true
}

// Continue completes the session: progress is forced to 100 and a deep copy
// of the draft is returned for the templating stage.
func (s *Store) Continue() types.ResumeDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = types.MilestoneComplete
	return s.draft.Clone()
}

func (s *Store) listLen(section types.Section) int {
	switch section {
	case types.SectionEducation:
		return len(s.draft.Education)
	case types.SectionProjects:
		return len(s.draft.Projects)
	case types.SectionCertificates:
		return len(s.draft.Certificates)
	}
	return 0
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func appendClone[T any](in []T, v T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}
