package codec

import (
	"regexp"
	"strings"

	"github.com/nikogura/docx-tailor/pkg/docx"
)

// RenderMode selects how replacement lines are mapped onto anchors.
type RenderMode int

const (
	// ModeUniform clones every line from one default anchor: the bullet
	// anchor when the original section body contained bullets, the body
	// anchor otherwise.
	ModeUniform RenderMode = iota
	// ModeMixed classifies each line independently: "Name | Org | Dates"
	// title rows clone the body anchor, detail lines clone the bullet
	// anchor. Used for sections whose entries alternate a title row with
	// bullets, such as projects and experience.
	ModeMixed
	// ModeHeader renders the leading name/contact block: contact-looking
	// lines clone the contact anchor, everything else the body anchor.
	ModeHeader
)

var (
	leadingGlyphs   = regexp.MustCompile(`^[\x{2022}\-\*\t\s]+`)
	innerWhitespace = regexp.MustCompile(`\s+`)
	numberedList    = regexp.MustCompile(`^\d+[.)]\s*`)
)

// Rewriter replaces section bodies in a host document by cloning formatting
// anchors discovered from the template. With Strict set, every cloned
// paragraph is verified against its anchor's formatting signature after
// insertion; any mismatch aborts the conversion.
type Rewriter struct {
	Doc     *docx.Document
	Anchors docx.Anchors
	Strict  bool
}

// cloneRecord retains the anchor decision made for a line at clone time so
// verification compares against the same anchor rather than re-deriving the
// classification from the rendered text.
type cloneRecord struct {
	para   *docx.Paragraph
	anchor *docx.Paragraph
	line   string
}

// RewriteSection deletes the section's body paragraphs and replaces them
// with one cloned paragraph per surviving content line. Lines are trimmed,
// stripped of leading bullet glyphs (to avoid double-rendered bullets),
// whitespace-collapsed, and dropped when empty. An empty replacement list
// leaves the section header with no body, which is not an error.
func (rw *Rewriter) RewriteSection(section docx.Section, lines []string, mode RenderMode) (err error) {
	clean := sanitizeLines(lines)

	var fallback *docx.Paragraph
	if len(clean) > 0 {
		fallback, err = rw.defaultAnchor(section)
		if err != nil {
			return err
		}
	}

	for _, p := range section.Body {
		p.Remove()
	}

	records := make([]cloneRecord, 0, len(clean))
	ref := section.Header
	for _, line := range clean {
		anchor := rw.chooseAnchor(line, mode, fallback)

		var clone *docx.Paragraph
		if ref == nil {
			clone = anchor.CloneAtStart(rw.Doc)
		} else {
			clone = anchor.CloneAfter(ref)
		}
		clone.SetText(line)
		records = append(records, cloneRecord{para: clone, anchor: anchor, line: line})
		ref = clone
	}

	if rw.Strict {
		err = verifyClones(section.Title(), records)
	}
	return err
}

// defaultAnchor picks the single formatting donor for a uniform section:
// bullets beget bullets, otherwise body, with progressively weaker
// fallbacks ending at the section header itself. No donor at all is a hard
// failure for a section that has content to render.
func (rw *Rewriter) defaultAnchor(section docx.Section) (anchor *docx.Paragraph, err error) {
	hadBullets := false
	for _, p := range section.Body {
		if p.IsBulleted() {
			hadBullets = true
			break
		}
	}

	switch {
	case hadBullets && rw.Anchors.Bullet != nil:
		anchor = rw.Anchors.Bullet
	case rw.Anchors.Body != nil:
		anchor = rw.Anchors.Body
	case rw.Anchors.Bullet != nil:
		anchor = rw.Anchors.Bullet
	case rw.Anchors.Contact != nil:
		anchor = rw.Anchors.Contact
	case section.Header != nil:
		anchor = section.Header
	default:
		err = &MissingAnchorError{Section: section.Title()}
	}
	return anchor, err
}

// chooseAnchor resolves the per-line anchor for the given render mode,
// falling back to the section default when a preferred anchor is absent.
func (rw *Rewriter) chooseAnchor(line string, mode RenderMode, fallback *docx.Paragraph) (anchor *docx.Paragraph) {
	anchor = fallback
	switch mode {
	case ModeUniform:
		// Everything uses the default.
	case ModeMixed:
		if isTitleRow(line) {
			if rw.Anchors.Body != nil {
				anchor = rw.Anchors.Body
			}
		} else if rw.Anchors.Bullet != nil {
			anchor = rw.Anchors.Bullet
		}
	case ModeHeader:
		if docx.IsContactLine(line) {
			if rw.Anchors.Contact != nil {
				anchor = rw.Anchors.Contact
			}
		} else if rw.Anchors.Body != nil {
			anchor = rw.Anchors.Body
		}
	}
	return anchor
}

// verifyClones recomputes each inserted paragraph's formatting signature
// and compares it to the signature of the anchor recorded at clone time.
func verifyClones(sectionTitle string, records []cloneRecord) (err error) {
	for _, rec := range records {
		if docx.Signature(rec.para) != docx.Signature(rec.anchor) {
			err = &DriftError{Section: sectionTitle, Line: rec.line}
			return err
		}
	}
	return err
}

// isTitleRow reports whether a line looks like an entry title row
// ("Name | Organization | Dates") rather than a detail bullet.
func isTitleRow(line string) (result bool) {
	result = strings.Contains(line, " | ") && !numberedList.MatchString(line)
	return result
}

// sanitizeLines normalizes replacement content: trim, strip leading bullet
// glyphs and dashes, collapse internal whitespace, drop emptied lines.
func sanitizeLines(lines []string) (clean []string) {
	for _, line := range lines {
		t := strings.TrimSpace(line)
		t = leadingGlyphs.ReplaceAllString(t, "")
		t = innerWhitespace.ReplaceAllString(t, " ")
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return clean
}
