package docx

import "strings"

// Section is a header-delimited run of paragraphs. Header is nil for the
// headerless leading section formed by paragraphs before the first header.
type Section struct {
	Header *Paragraph
	Body   []*Paragraph
}

// Title returns the section's trimmed header text, or "" for a headerless
// section.
func (s *Section) Title() (title string) {
	if s.Header != nil {
		title = strings.TrimSpace(s.Header.Text())
	}
	return title
}

// LocateSections partitions the document's paragraphs into sections in
// document order. ALL-CAPS lines start a new section; everything else
// accumulates into the current section's body. A document with no headers
// yields a single headerless section. The walk is deterministic and leaves
// the document unmodified.
func LocateSections(doc *Document) (sections []Section) {
	var current *Section

	for _, p := range doc.Paragraphs() {
		text := strings.TrimSpace(p.Text())
		if IsSectionHeader(text) {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Header: p}
			continue
		}
		if current == nil {
			current = &Section{}
		}
		current.Body = append(current.Body, p)
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}
