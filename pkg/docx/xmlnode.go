package docx

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Attr is a single XML attribute. Value holds the raw attribute text exactly
// as it appeared in the source, entities included, so serialization is
// byte-faithful.
type Attr struct {
	Name  string
	Value string
}

// Node is a structure-preserving XML node. Element nodes carry the raw
// qualified name (e.g. "w:p") and attributes in source order. Non-element
// content (character data, comments, processing instructions, CDATA) is kept
// verbatim in Raw with an empty Name. Round-tripping an untouched tree
// reproduces the input byte-for-byte, which is what lets cloned paragraphs
// keep every formatting property WordprocessingML hangs on them.
type Node struct {
	Name      string
	Attrs     []Attr
	Children  []*Node
	Raw       string
	parent    *Node
	selfClose bool
}

// IsElement reports whether the node is an element (as opposed to raw
// character data or markup).
func (n *Node) IsElement() (result bool) {
	result = n.Name != ""
	return result
}

// Parent returns the node's parent element, or nil for a root.
func (n *Node) Parent() (parent *Node) {
	parent = n.parent
	return parent
}

// Attr returns the raw value of the named attribute and whether it exists.
func (n *Node) Attr(name string) (value string, found bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			value = a.Value
			found = true
			return value, found
		}
	}
	return value, found
}

// SetAttr sets or replaces the named attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// FirstChild returns the first child element with the given name, or nil.
func (n *Node) FirstChild(name string) (child *Node) {
	for _, c := range n.Children {
		if c.Name == name {
			child = c
			return child
		}
	}
	return child
}

// ChildrenNamed returns all direct child elements with the given name.
func (n *Node) ChildrenNamed(name string) (children []*Node) {
	for _, c := range n.Children {
		if c.Name == name {
			children = append(children, c)
		}
	}
	return children
}

// Descendants appends to out every descendant element with the given name,
// in document order.
func (n *Node) Descendants(name string) (found []*Node) {
	for _, c := range n.Children {
		if c.Name == name {
			found = append(found, c)
		}
		found = append(found, c.Descendants(name)...)
	}
	return found
}

// HasDescendant reports whether any descendant element has the given name.
func (n *Node) HasDescendant(name string) (result bool) {
	for _, c := range n.Children {
		if c.Name == name || c.HasDescendant(name) {
			result = true
			return result
		}
	}
	return result
}

// Clone returns a deep copy of the node. The copy has no parent.
func (n *Node) Clone() (clone *Node) {
	clone = &Node{
		Name:      n.Name,
		Raw:       n.Raw,
		selfClose: n.selfClose,
	}
	if len(n.Attrs) > 0 {
		clone.Attrs = make([]Attr, len(n.Attrs))
		copy(clone.Attrs, n.Attrs)
	}
	for _, c := range n.Children {
		cc := c.Clone()
		cc.parent = clone
		clone.Children = append(clone.Children, cc)
	}
	return clone
}

// InsertAfter inserts newChild into n's children immediately after ref.
// If ref is not a child of n, newChild is appended.
func (n *Node) InsertAfter(ref, newChild *Node) {
	newChild.parent = n
	for i, c := range n.Children {
		if c == ref {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+2:], n.Children[i+1:])
			n.Children[i+1] = newChild
			return
		}
	}
	n.Children = append(n.Children, newChild)
}

// InsertFirst inserts newChild as n's first child.
func (n *Node) InsertFirst(newChild *Node) {
	newChild.parent = n
	n.Children = append([]*Node{newChild}, n.Children...)
}

// RemoveChild removes child from n's children. Removing a node that is not
// a child is a no-op.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Text returns the concatenated, entity-decoded character data of the node's
// immediate non-element children.
func (n *Node) Text() (text string) {
	var b strings.Builder
	for _, c := range n.Children {
		if !c.IsElement() && !strings.HasPrefix(c.Raw, "<") {
			b.WriteString(unescapeXML(c.Raw))
		}
	}
	text = b.String()
	return text
}

// SetText replaces the node's character data with the given string, escaping
// as needed. Element children are preserved.
func (n *Node) SetText(text string) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.IsElement() || strings.HasPrefix(c.Raw, "<") {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	if text != "" {
		n.Children = append(n.Children, &Node{Raw: escapeXML(text), parent: n})
	}
	n.selfClose = false
}

// String serializes the node and its subtree back to XML.
func (n *Node) String() (xml string) {
	var b strings.Builder
	n.writeTo(&b)
	xml = b.String()
	return xml
}

func (n *Node) writeTo(b *strings.Builder) {
	if !n.IsElement() {
		b.WriteString(n.Raw)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	if len(n.Children) == 0 && n.selfClose {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		c.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}

// parseXML parses a complete XML document into its top-level nodes (prolog,
// comments, and the single root element). It is a structure-preserving
// parser: names, attribute order, and raw text are kept exactly as found.
func parseXML(data []byte) (nodes []*Node, err error) {
	p := &xmlParser{data: data}
	nodes, err = p.parseChildren(nil)
	if err != nil {
		return nodes, err
	}
	if p.pos != len(p.data) {
		err = errors.Errorf("unexpected close tag at offset %d", p.pos)
		return nodes, err
	}
	return nodes, err
}

type xmlParser struct {
	data []byte
	pos  int
}

// parseChildren consumes nodes until EOF or the close tag of parent.
func (p *xmlParser) parseChildren(parent *Node) (nodes []*Node, err error) {
	for p.pos < len(p.data) {
		if p.data[p.pos] != '<' {
			// Character data, kept raw.
			start := p.pos
			for p.pos < len(p.data) && p.data[p.pos] != '<' {
				p.pos++
			}
			nodes = append(nodes, &Node{Raw: string(p.data[start:p.pos]), parent: parent})
			continue
		}

		// Markup.
		switch {
		case p.hasPrefix("</"):
			if parent == nil {
				err = errors.New("close tag with no open element")
				return nodes, err
			}
			var name string
			name, err = p.parseCloseTag()
			if err != nil {
				return nodes, err
			}
			if name != parent.Name {
				err = errors.Errorf("mismatched close tag: got </%s>, want </%s>", name, parent.Name)
				return nodes, err
			}
			return nodes, err
		case p.hasPrefix("<!--"):
			var raw string
			raw, err = p.consumeUntil("-->")
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, &Node{Raw: raw, parent: parent})
		case p.hasPrefix("<![CDATA["):
			var raw string
			raw, err = p.consumeUntil("]]>")
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, &Node{Raw: raw, parent: parent})
		case p.hasPrefix("<?"):
			var raw string
			raw, err = p.consumeUntil("?>")
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, &Node{Raw: raw, parent: parent})
		case p.hasPrefix("<!"):
			var raw string
			raw, err = p.consumeUntil(">")
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, &Node{Raw: raw, parent: parent})
		default:
			var elem *Node
			elem, err = p.parseElement(parent)
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, elem)
		}
	}

	if parent != nil {
		err = errors.Errorf("unexpected end of input inside <%s>", parent.Name)
	}
	return nodes, err
}

func (p *xmlParser) parseElement(parent *Node) (elem *Node, err error) {
	p.pos++ // consume '<'
	name := p.parseName()
	if name == "" {
		err = errors.Errorf("empty element name at offset %d", p.pos)
		return elem, err
	}

	elem = &Node{Name: name, parent: parent}

	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			err = errors.Errorf("unexpected end of input in <%s>", name)
			return elem, err
		}
		if p.hasPrefix("/>") {
			p.pos += 2
			elem.selfClose = true
			return elem, err
		}
		if p.data[p.pos] == '>' {
			p.pos++
			elem.Children, err = p.parseChildren(elem)
			return elem, err
		}

		var attr Attr
		attr, err = p.parseAttr()
		if err != nil {
			return elem, err
		}
		elem.Attrs = append(elem.Attrs, attr)
	}
}

func (p *xmlParser) parseAttr() (attr Attr, err error) {
	attr.Name = p.parseName()
	if attr.Name == "" {
		err = errors.Errorf("malformed attribute at offset %d", p.pos)
		return attr, err
	}
	if p.pos >= len(p.data) || p.data[p.pos] != '=' {
		err = errors.Errorf("attribute %s missing value", attr.Name)
		return attr, err
	}
	p.pos++
	if p.pos >= len(p.data) || (p.data[p.pos] != '"' && p.data[p.pos] != '\'') {
		err = errors.Errorf("attribute %s missing quote", attr.Name)
		return attr, err
	}
	quote := p.data[p.pos]
	p.pos++
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != quote {
		p.pos++
	}
	if p.pos >= len(p.data) {
		err = errors.Errorf("unterminated attribute value for %s", attr.Name)
		return attr, err
	}
	attr.Value = string(p.data[start:p.pos])
	p.pos++
	return attr, err
}

func (p *xmlParser) parseCloseTag() (name string, err error) {
	p.pos += 2 // consume "</"
	name = p.parseName()
	p.skipSpace()
	if p.pos >= len(p.data) || p.data[p.pos] != '>' {
		err = errors.Errorf("malformed close tag </%s", name)
		return name, err
	}
	p.pos++
	return name, err
}

func (p *xmlParser) parseName() (name string) {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '>' || c == '/' || c == '=' {
			break
		}
		p.pos++
	}
	name = string(p.data[start:p.pos])
	return name
}

func (p *xmlParser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		p.pos++
	}
}

func (p *xmlParser) hasPrefix(s string) (result bool) {
	result = strings.HasPrefix(string(p.data[p.pos:min(p.pos+len(s), len(p.data))]), s)
	return result
}

// consumeUntil consumes raw markup from the current position through the
// first occurrence of end, returning it verbatim.
func (p *xmlParser) consumeUntil(end string) (raw string, err error) {
	idx := strings.Index(string(p.data[p.pos:]), end)
	if idx < 0 {
		err = errors.Errorf("unterminated markup at offset %d", p.pos)
		return raw, err
	}
	stop := p.pos + idx + len(end)
	raw = string(p.data[p.pos:stop])
	p.pos = stop
	return raw, err
}

// escapeXML escapes character data for embedding in an XML text node.
func escapeXML(s string) (escaped string) {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	escaped = b.String()
	return escaped
}

// unescapeXML decodes the predefined XML entities and decimal/hex character
// references in raw character data.
func unescapeXML(s string) (text string) {
	if !strings.Contains(s, "&") {
		text = s
		return text
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		entity := s[i+1 : i+semi]
		switch {
		case entity == "amp":
			b.WriteByte('&')
		case entity == "lt":
			b.WriteByte('<')
		case entity == "gt":
			b.WriteByte('>')
		case entity == "quot":
			b.WriteByte('"')
		case entity == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(entity, "#x") || strings.HasPrefix(entity, "#X"):
			if code, convErr := strconv.ParseInt(entity[2:], 16, 32); convErr == nil {
				b.WriteRune(rune(code))
			}
		case strings.HasPrefix(entity, "#"):
			if code, convErr := strconv.ParseInt(entity[1:], 10, 32); convErr == nil {
				b.WriteRune(rune(code))
			}
		default:
			// Unknown entity, kept as-is.
			b.WriteString(s[i : i+semi+1])
		}
		i += semi + 1
	}
	text = b.String()
	return text
}
