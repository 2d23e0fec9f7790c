// Package types provides type definitions for structured data used throughout skillfolio.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Personal holds the contact block at the top of the resume
type Personal struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Education is one row of the education section
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// Project is one row of the projects section
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Certificate is one row of the certificates section
type Certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// ResumeDraft is the in-progress resume for one editing session.
// Its JSON form is the payload handed to the templating stage.
type ResumeDraft struct {
	Personal     Personal      `json:"personal"`
	Education    []Education   `json:"education"`
	Skills       []string      `json:"skills"`
	Projects     []Project     `json:"projects"`
	Summary      string        `json:"summary"`
	Certificates []Certificate `json:"certificates"`
}

// NewResumeDraft returns an empty draft with one placeholder row per repeatable section.
func NewResumeDraft() ResumeDraft {
	d := ResumeDraft{}
	d.Normalize()
	return d
}

// Normalize fills absent sections so the form always has at least one input row
// for education, projects and certificates. Skills is a tag list and only gets
// a non-nil empty slice.
func (d *ResumeDraft) Normalize() {
	if len(d.Education) == 0 {
		d.Education = []Education{{}}
	}
	if len(d.Projects) == 0 {
		d.Projects = []Project{{}}
	}
	if len(d.Certificates) == 0 {
		d.Certificates = []Certificate{{}}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
}

// Clone returns a deep copy that shares no slices with d.
func (d ResumeDraft) Clone() ResumeDraft {
	out := d
	out.Education = cloneSlice(d.Education)
	out.Skills = cloneSlice(d.Skills)
	out.Projects = cloneSlice(d.Projects)
	out.Certificates = cloneSlice(d.Certificates)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
