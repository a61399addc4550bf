package docx

// Signature computes a comparable fingerprint of a paragraph's non-text
// formatting: paragraph properties, each run's properties in order, and
// numbering membership. Text content never participates, so replacing a
// paragraph's text leaves its signature unchanged, while any change to a
// tracked structural property changes it. This equality contract is the
// verification primitive for formatting preservation.
func Signature(p *Paragraph) (sig string) {
	stripped := p.node.Clone()
	stripText(stripped)
	sig = stripped.String()
	return sig
}

// stripText removes all text elements and raw character data from the
// subtree, leaving only structural markup. Runs that carry nothing but text
// are dropped entirely: a bare text carrier has no formatting of its own, so
// its presence or absence must not affect the signature.
func stripText(n *Node) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if !c.IsElement() || c.Name == "w:t" {
			continue
		}
		stripText(c)
		if c.Name == "w:r" && len(c.Children) == 0 && len(c.Attrs) == 0 {
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
}
