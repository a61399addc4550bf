package codec

import "strings"

// ParseSections splits structured text into a mapping from section key to
// content lines. Recognized marker tokens open a new section; lines before
// any marker accumulate into an implicit HEADER bucket; unrecognized
// marker-like tokens are treated as plain content. Missing sections are
// simply absent from the result — absence is tolerated downstream, never
// fatal.
func ParseSections(text string) (sections map[SectionKey][]string) {
	sections = make(map[SectionKey][]string)
	var current SectionKey
	haveCurrent := false

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if key, found := matchMarker(line); found {
			current = key
			haveCurrent = true
			if _, exists := sections[current]; !exists {
				sections[current] = []string{}
			}
			continue
		}

		if haveCurrent {
			sections[current] = append(sections[current], line)
			continue
		}
		sections[SectionHeader] = append(sections[SectionHeader], line)
	}

	return sections
}
