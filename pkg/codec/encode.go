package codec

import (
	"strings"

	"github.com/nikogura/docx-tailor/pkg/docx"
	"github.com/pkg/errors"
)

// Encode flattens a document into structured text: each recognized section
// header is preceded by its marker token and followed by the header's own
// text and one line per non-blank body paragraph. Content appearing before
// any recognized header is tagged as the HEADER section with a synthetic
// marker, so encoded text is always fully tagged. A document with no text
// at all is an error, since there is nothing to tailor.
func Encode(doc *docx.Document) (text string, err error) {
	var lines []string
	sawMarker := false
	syntheticHeader := false

	for _, p := range doc.Paragraphs() {
		paraText := strings.TrimSpace(p.Text())
		if paraText == "" {
			continue
		}

		if docx.IsSectionHeader(paraText) {
			if key, found := ClassifyHeader(paraText); found {
				if len(lines) > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, Marker(key))
				sawMarker = true
			}
			lines = append(lines, paraText)
			continue
		}

		if !sawMarker && !syntheticHeader {
			lines = append([]string{Marker(SectionHeader)}, lines...)
			syntheticHeader = true
		}
		lines = append(lines, paraText)
	}

	if len(lines) == 0 {
		err = errors.New("document contains no text")
		return text, err
	}

	text = strings.Join(lines, "\n")
	return text, err
}
