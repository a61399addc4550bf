package codec

import (
	"log/slog"

	"github.com/nikogura/docx-tailor/pkg/docx"
)

// Decode rebuilds a document from structured text using the template as the
// formatting source of truth. The template itself is read-only: anchors and
// sections are discovered on an independent clone, and section bodies are
// rebuilt by cloning those anchors, one paragraph per content line. Sections
// missing from the text are rendered empty (header kept); sections in the
// text with no counterpart in the template are ignored; the line count per
// section is free to differ from the template's. With strict set, every
// inserted paragraph is signature-verified against its anchor and any drift
// aborts the conversion with a DriftError.
func Decode(text string, template *docx.Document, strict bool) (out *docx.Document, err error) {
	out = template.Clone()

	// Anchors and sections refer to paragraphs of the output clone, so the
	// clones inserted below live in the right tree. Anchor paragraphs stay
	// valid donors even after their own section body is deleted: they are
	// read, never mutated.
	anchors := docx.DiscoverAnchors(out)
	sections := docx.LocateSections(out)
	parsed := ParseSections(text)

	rw := &Rewriter{Doc: out, Anchors: anchors, Strict: strict}

	rendered := map[SectionKey]bool{}
	for _, section := range sections {
		var key SectionKey
		var mode RenderMode

		if section.Header == nil {
			// Pre-header content is the HEADER section by convention.
			key = SectionHeader
			mode = ModeHeader
		} else {
			var known bool
			key, known = ClassifyHeader(section.Title())
			if !known {
				// Unrecognized template section: left untouched.
				continue
			}
			mode = modeFor(key)
		}

		err = rw.RewriteSection(section, stripHeaderEcho(key, parsed[key]), mode)
		if err != nil {
			out = nil
			return out, err
		}
		rendered[key] = true
	}

	for _, key := range sectionOrder {
		if rendered[key] || len(parsed[key]) == 0 {
			continue
		}
		slog.Warn("dropping section with no matching template header",
			slog.String("section", string(key)), slog.Int("lines", len(parsed[key])))
	}

	return out, err
}

// stripHeaderEcho drops a leading content line that merely repeats the
// section's own header, which the encoder emits right after the marker.
// Collaborators that omit the echo are unaffected.
func stripHeaderEcho(key SectionKey, lines []string) (content []string) {
	content = lines
	if len(content) > 0 && docx.IsSectionHeader(content[0]) {
		if echoKey, found := ClassifyHeader(content[0]); found && echoKey == key {
			content = content[1:]
		}
	}
	return content
}

// modeFor selects the render mode for a recognized section. Education,
// projects, and experience entries alternate a "Name | Org | Dates" title
// row with detail bullets, so they render in mixed mode; skills render
// uniformly.
func modeFor(key SectionKey) (mode RenderMode) {
	switch key {
	case SectionEducation, SectionProjects, SectionExperience:
		mode = ModeMixed
	case SectionHeader:
		mode = ModeHeader
	default:
		mode = ModeUniform
	}
	return mode
}
