package docx

import (
	"strings"
	"testing"
)

func TestParseXMLRoundTrip(t *testing.T) {
	// Prolog, comments, namespaced attrs, self-closing elements, entities,
	// and attribute order all survive byte-for-byte.
	input := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<!-- generated -->` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" w:conformance="strict">` +
		`<w:body>` +
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		`<w:r><w:rPr><w:b/><w:sz w:val="28"/></w:rPr><w:t xml:space="preserve"> AT&amp;T &#8211; Senior </w:t></w:r>` +
		`</w:p>` +
		`<w:p/>` +
		`</w:body>` +
		`</w:document>`

	nodes, err := parseXML([]byte(input))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.String())
	}

	if b.String() != input {
		t.Errorf("Round trip mismatch:\n got: %s\nwant: %s", b.String(), input)
	}
}

func TestParseXMLMismatchedCloseTag(t *testing.T) {
	_, err := parseXML([]byte(`<w:p><w:r></w:p></w:r>`))
	if err == nil {
		t.Error("Expected error for mismatched close tag, got nil")
	}
}

func TestParseXMLUnterminated(t *testing.T) {
	_, err := parseXML([]byte(`<w:p><w:r>`))
	if err == nil {
		t.Error("Expected error for unterminated element, got nil")
	}
}

func TestNodeTextDecodesEntities(t *testing.T) {
	nodes, err := parseXML([]byte(`<w:t>AT&amp;T &lt;Labs&gt; &#x2022; &#8211;</w:t>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	got := nodes[0].Text()
	want := "AT&T <Labs> • –"
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestNodeSetTextEscapes(t *testing.T) {
	nodes, err := parseXML([]byte(`<w:t>old</w:t>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	wt := nodes[0]
	wt.SetText("R&D <platform>")

	if !strings.Contains(wt.String(), "R&amp;D &lt;platform&gt;") {
		t.Errorf("Expected escaped serialization, got %s", wt.String())
	}
	if wt.Text() != "R&D <platform>" {
		t.Errorf("Expected text round trip, got %q", wt.Text())
	}
}

func TestNodeCloneIsIndependent(t *testing.T) {
	nodes, err := parseXML([]byte(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>hello</w:t></w:r></w:p>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	orig := nodes[0]
	clone := orig.Clone()

	if clone.Parent() != nil {
		t.Error("Expected clone to have no parent")
	}

	clone.Descendants("w:t")[0].SetText("changed")

	if orig.Descendants("w:t")[0].Text() != "hello" {
		t.Error("Mutating clone affected original")
	}
	if clone.String() == orig.String() {
		t.Error("Expected clone serialization to differ after mutation")
	}
}

func TestNodeInsertAfterAndRemove(t *testing.T) {
	nodes, err := parseXML([]byte(`<w:body><w:p><w:t>a</w:t></w:p><w:p><w:t>b</w:t></w:p></w:body>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	body := nodes[0]
	first := body.Children[0]
	second := body.Children[1]

	inserted := second.Clone()
	body.InsertAfter(first, inserted)

	if len(body.Children) != 3 || body.Children[1] != inserted {
		t.Fatalf("Expected insert after first child, got %d children", len(body.Children))
	}
	if inserted.Parent() != body {
		t.Error("Expected inserted node to be parented to body")
	}

	body.RemoveChild(first)
	if len(body.Children) != 2 || body.Children[0] != inserted {
		t.Error("Expected first child removed")
	}
	if first.Parent() != nil {
		t.Error("Expected removed node to be orphaned")
	}
}

func TestNodeAttrAccess(t *testing.T) {
	nodes, err := parseXML([]byte(`<w:sz w:val="28"/>`))
	if err != nil {
		t.Fatalf("parseXML failed: %v", err)
	}

	n := nodes[0]
	val, found := n.Attr("w:val")
	if !found || val != "28" {
		t.Errorf("Attr(w:val) = %q, %v", val, found)
	}

	_, found = n.Attr("w:missing")
	if found {
		t.Error("Expected missing attribute to report not found")
	}

	n.SetAttr("w:val", "32")
	val, _ = n.Attr("w:val")
	if val != "32" {
		t.Errorf("Expected replaced attribute value, got %q", val)
	}
}
