package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Section names a top-level part of the draft
type Section string

// Draft sections
const (
	SectionPersonal     Section = "personal"
	SectionEducation    Section = "education"
	SectionSkills       Section = "skills"
	SectionProjects     Section = "projects"
	SectionSummary      Section = "summary"
	SectionCertificates Section = "certificates"
)

// Field names use the JSON keys of the handoff payload.
const (
	FieldFullName = "fullName"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldLocation = "location"

	FieldSchool = "school"
	FieldDegree = "degree"
	FieldYear   = "year"

	FieldTitle       = "title"
	FieldDescription = "description"

	FieldName   = "name"
	FieldIssuer = "issuer"
	FieldDate   = "date"
)

var sectionFields = map[Section][]string{
	SectionPersonal:     {FieldFullName, FieldEmail, FieldPhone, FieldLocation},
	SectionEducation:    {FieldSchool, FieldDegree, FieldYear},
	SectionProjects:     {FieldTitle, FieldDescription},
	SectionCertificates: {FieldName, FieldIssuer, FieldDate},
}

// IsList reports whether the section is a repeatable list of records.
func (s Section) IsList() bool {
	switch s {
	case SectionEducation, SectionProjects, SectionCertificates:
		return true
	default:
		return false
	}
}

// Fields returns the editable field names of a record section, in form order.
func (s Section) Fields() []string {
	return sectionFields[s]
}

// HasField reports whether field is an editable key of the section.
func (s Section) HasField(field string) bool {
	for _, f := range sectionFields[s] {
		if f == field {
			return true
		}
	}
	return false
}

// ParseSection converts a user-supplied section name.
func ParseSection(name string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SectionPersonal, SectionEducation, SectionSkills, SectionProjects, SectionSummary, SectionCertificates:
		return s, nil
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// FieldKey identifies an AI-assisted field: "summary", "skills" or "project-<index>".
type FieldKey string

// Fixed AI-assisted fields
const (
	FieldKeySummary FieldKey = "summary"
	FieldKeySkills  FieldKey = "skills"
)

const projectKeyPrefix = "project-"

// ProjectField returns the key for the description of project i.
func ProjectField(i int) FieldKey {
	return FieldKey(projectKeyPrefix + strconv.Itoa(i))
}

// ProjectIndex returns the project index for a project key.
func (k FieldKey) ProjectIndex() (int, bool) {
	rest, ok := strings.CutPrefix(string(k), projectKeyPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// ParseFieldKey validates a user-supplied AI field name.
func ParseFieldKey(s string) (FieldKey, error) {
	k := FieldKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case FieldKeySummary, FieldKeySkills:
		return k, nil
	}
	if _, ok := k.ProjectIndex(); ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown AI field %q (want summary, skills or project-<n>)", s)
}
