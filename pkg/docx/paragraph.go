package docx

import (
	"strings"
	"unicode"
)

// Paragraph wraps a w:p element. The capability surface is deliberately
// small: read text, detect numbering, replace text preserving runs, clone.
type Paragraph struct {
	node *Node
	doc  *Document
}

// Text returns the paragraph's visible text: the concatenation of every
// w:t descendant, entity-decoded.
func (p *Paragraph) Text() (text string) {
	var b strings.Builder
	for _, t := range p.node.Descendants("w:t") {
		b.WriteString(t.Text())
	}
	text = b.String()
	return text
}

// HasNumbering reports whether the paragraph carries list/numbering
// properties (w:numPr).
func (p *Paragraph) HasNumbering() (result bool) {
	pPr := p.node.FirstChild("w:pPr")
	if pPr != nil {
		result = pPr.HasDescendant("w:numPr")
		return result
	}
	result = p.node.HasDescendant("w:numPr")
	return result
}

// IsBulleted reports whether the paragraph renders as a bullet: either
// through numbering properties or a literal bullet glyph in its text.
func (p *Paragraph) IsBulleted() (result bool) {
	if p.HasNumbering() {
		result = true
		return result
	}
	text := strings.TrimSpace(p.Text())
	result = strings.HasPrefix(text, "•") || strings.HasPrefix(text, "- ")
	return result
}

// SetText replaces the paragraph's text with the given string while keeping
// every formatting node intact. The text goes into the first run's first
// text element; all other text elements are emptied but their runs are kept,
// since runs can carry formatting even when empty.
func (p *Paragraph) SetText(text string) {
	runs := p.node.ChildrenNamed("w:r")
	if len(runs) == 0 {
		// No runs to reuse: append a minimal run. Formatting comes from the
		// paragraph properties alone in this case.
		run := &Node{Name: "w:r"}
		wt := &Node{Name: "w:t", parent: run}
		run.Children = append(run.Children, wt)
		setTextContent(wt, text)
		p.node.InsertAfter(p.node.FirstChild("w:pPr"), run)
		return
	}

	first := true
	for _, run := range runs {
		texts := run.Descendants("w:t")
		if first && len(texts) == 0 {
			wt := &Node{Name: "w:t", parent: run}
			run.Children = append(run.Children, wt)
			texts = []*Node{wt}
		}
		for _, t := range texts {
			if first {
				setTextContent(t, text)
				first = false
				continue
			}
			setTextContent(t, "")
		}
	}
}

// setTextContent sets a w:t element's text, marking significant whitespace
// so Word does not trim it.
func setTextContent(wt *Node, text string) {
	wt.SetText(text)
	if text != "" && (unicode.IsSpace(rune(text[0])) || unicode.IsSpace(rune(text[len(text)-1]))) {
		wt.SetAttr("xml:space", "preserve")
	}
}

// CloneAfter deep-copies this paragraph's full structural node and inserts
// the copy immediately after ref in ref's document. The receiver is treated
// as a read-only formatting donor.
func (p *Paragraph) CloneAfter(ref *Paragraph) (clone *Paragraph) {
	node := p.node.Clone()
	ref.doc.body.InsertAfter(ref.node, node)
	clone = &Paragraph{node: node, doc: ref.doc}
	return clone
}

// CloneAtStart deep-copies this paragraph's full structural node and
// inserts the copy as the first paragraph of doc. Used when a headerless
// leading section is rebuilt and there is no header to insert after.
func (p *Paragraph) CloneAtStart(doc *Document) (clone *Paragraph) {
	node := p.node.Clone()
	doc.body.InsertFirst(node)
	clone = &Paragraph{node: node, doc: doc}
	return clone
}

// Remove deletes the paragraph from its document. Sibling paragraphs keep
// their formatting untouched.
func (p *Paragraph) Remove() {
	p.doc.body.RemoveChild(p.node)
}
