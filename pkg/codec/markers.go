// Package codec converts between a formatted Word document and a flat,
// section-tagged text representation. Encoding flattens a template into
// marker-tagged lines a language model can rewrite; decoding maps rewritten
// lines back onto a fresh copy of the template, cloning formatting anchors
// so the output is visually indistinguishable from the master.
package codec

import "strings"

// SectionKey identifies one of the known resume sections.
type SectionKey string

// The recognized section vocabulary.
const (
	SectionHeader     SectionKey = "HEADER"
	SectionEducation  SectionKey = "EDUCATION"
	SectionProjects   SectionKey = "PROJECTS"
	SectionExperience SectionKey = "EXPERIENCE"
	SectionSkills     SectionKey = "SKILLS"
)

// markers maps each section to its canonical marker token.
var markers = map[SectionKey]string{
	SectionHeader:     "===HEADER===",
	SectionEducation:  "===EDUCATION===",
	SectionProjects:   "===PROJECTS===",
	SectionExperience: "===PROFESSIONAL EXPERIENCE===",
	SectionSkills:     "===TECHNICAL SKILLS===",
}

// markerAliases lists every marker token the decoder accepts per section.
// Collaborators are expected, but not guaranteed, to echo the canonical
// set, so the short forms are accepted too.
var markerAliases = map[SectionKey][]string{
	SectionHeader:     {"===HEADER==="},
	SectionEducation:  {"===EDUCATION==="},
	SectionProjects:   {"===PROJECTS==="},
	SectionExperience: {"===PROFESSIONAL EXPERIENCE===", "===EXPERIENCE==="},
	SectionSkills:     {"===TECHNICAL SKILLS===", "===SKILLS==="},
}

// sectionOrder fixes a deterministic match order. EDUCATION is checked
// before EXPERIENCE so that substring matching on header titles cannot
// confuse the two, and EXPERIENCE before SKILLS for the same reason with
// compound titles.
var sectionOrder = []SectionKey{SectionHeader, SectionEducation, SectionProjects, SectionExperience, SectionSkills}

// Marker returns the canonical marker token for a section.
func Marker(key SectionKey) (marker string) {
	marker = markers[key]
	return marker
}

// matchMarker reports whether a line carries one of the recognized marker
// tokens.
func matchMarker(line string) (key SectionKey, found bool) {
	for _, k := range sectionOrder {
		for _, alias := range markerAliases[k] {
			if strings.Contains(line, alias) {
				key = k
				found = true
				return key, found
			}
		}
	}
	return key, found
}

// headerKeywords maps substrings of template header titles to sections.
// Order matters: "PROFESSIONAL EXPERIENCE" must not be swallowed by a
// shorter alias, and skills titles vary the most.
var headerKeywords = []struct {
	key      SectionKey
	contains []string
}{
	{SectionEducation, []string{"EDUCATION", "ACADEMICS"}},
	{SectionProjects, []string{"PROJECTS"}},
	{SectionExperience, []string{"EXPERIENCE"}},
	{SectionSkills, []string{"SKILL", "TECHNICAL"}},
}

// ClassifyHeader maps a template section-header title to a section key.
func ClassifyHeader(title string) (key SectionKey, found bool) {
	upper := strings.ToUpper(strings.TrimSpace(title))
	for _, entry := range headerKeywords {
		for _, substr := range entry.contains {
			if strings.Contains(upper, substr) {
				key = entry.key
				found = true
				return key, found
			}
		}
	}
	return key, found
}
