package types

// Milestone is a fixed progress value unlocked by completing a specific field
type Milestone int

// Progress scale. Each value is unlocked by the field named in its constant.
const (
	MilestoneName      Milestone = 25
	MilestoneEducation Milestone = 50
	MilestoneSkills    Milestone = 60
	MilestoneProjects  Milestone = 70
	MilestoneSummary   Milestone = 85
	MilestoneComplete  Milestone = 100
)

// Milestones lists the scale in ascending order
var Milestones = []Milestone{
	MilestoneName,
	MilestoneEducation,
	MilestoneSkills,
	MilestoneProjects,
	MilestoneSummary,
	MilestoneComplete,
}

// MilestoneFor returns the milestone unlocked by editing field in section, if any.
func MilestoneFor(section Section, field string) (Milestone, bool) {
	switch {
	case section == SectionPersonal && field == FieldFullName:
		return MilestoneName, true
	case section == SectionEducation && field == FieldSchool:
		return MilestoneEducation, true
	case section == SectionSkills:
		return MilestoneSkills, true
	case section == SectionProjects && field == FieldTitle:
		return MilestoneProjects, true
	case section == SectionSummary:
		return MilestoneSummary, true
	case section == SectionCertificates:
		return MilestoneComplete, true
	}
	return 0, false
}
