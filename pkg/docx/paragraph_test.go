package docx

import (
	"strings"
	"testing"
)

func TestParagraphText(t *testing.T) {
	doc := openTestDoc(t)
	p := doc.Paragraphs()[1]

	want := "jane@example.com | 555-123-4567 | linkedin.com/in/janedoe"
	if p.Text() != want {
		t.Errorf("Text() = %q, want %q", p.Text(), want)
	}
}

func TestParagraphTextMultipleRuns(t *testing.T) {
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://x"><w:body>` +
		`<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>world</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	doc, err := Open(writeDocx(t, xml))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	if doc.Paragraphs()[0].Text() != "Hello world" {
		t.Errorf("Expected concatenated run text, got %q", doc.Paragraphs()[0].Text())
	}
}

func TestHasNumbering(t *testing.T) {
	doc := openTestDoc(t)
	paragraphs := doc.Paragraphs()

	if paragraphs[3].HasNumbering() {
		t.Error("Expected title row to have no numbering")
	}
	if !paragraphs[4].HasNumbering() {
		t.Error("Expected bulleted paragraph to have numbering")
	}
}

func TestIsBulleted(t *testing.T) {
	doc := openTestDoc(t)
	if !doc.Paragraphs()[4].IsBulleted() {
		t.Error("Expected numbered paragraph to be bulleted")
	}
	if doc.Paragraphs()[0].IsBulleted() {
		t.Error("Expected name paragraph to not be bulleted")
	}

	// Literal glyph counts too, even without numbering properties.
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://x"><w:body>` +
		`<w:p><w:r><w:t>` + "•" + ` Shipped the thing</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	doc2, err := Open(writeDocx(t, xml))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if !doc2.Paragraphs()[0].IsBulleted() {
		t.Error("Expected glyph-prefixed paragraph to be bulleted")
	}
}

func TestSetTextKeepsRuns(t *testing.T) {
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://x"><w:body>` +
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Hello </w:t></w:r><w:r><w:rPr><w:i/></w:rPr><w:t>world</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	doc, err := Open(writeDocx(t, xml))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	p := doc.Paragraphs()[0]
	p.SetText("Replaced")

	if p.Text() != "Replaced" {
		t.Errorf("Expected replaced text, got %q", p.Text())
	}

	// Both runs survive with their run properties; only the text moved.
	serialized := p.node.String()
	if !strings.Contains(serialized, "<w:b/>") || !strings.Contains(serialized, "<w:i/>") {
		t.Errorf("Expected both run properties to survive, got %s", serialized)
	}
	runs := p.node.ChildrenNamed("w:r")
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs after SetText, got %d", len(runs))
	}
}

func TestSetTextNoRuns(t *testing.T) {
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://x"><w:body>` +
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>` +
		`</w:body></w:document>`
	doc, err := Open(writeDocx(t, xml))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	p := doc.Paragraphs()[0]
	p.SetText("new content")

	if p.Text() != "new content" {
		t.Errorf("Expected text on runless paragraph, got %q", p.Text())
	}
	// The run lands after pPr.
	if p.node.Children[0].Name != "w:pPr" {
		t.Error("Expected paragraph properties to stay first")
	}
}

func TestSetTextPreservesSignificantWhitespace(t *testing.T) {
	doc := openTestDoc(t)
	p := doc.Paragraphs()[0]
	p.SetText(" padded ")

	wt := p.node.Descendants("w:t")[0]
	val, found := wt.Attr("xml:space")
	if !found || val != "preserve" {
		t.Error("Expected xml:space=preserve for edge whitespace")
	}
}

func TestCloneAfterAndRemove(t *testing.T) {
	doc := openTestDoc(t)
	paragraphs := doc.Paragraphs()
	donor := paragraphs[4]
	header := paragraphs[2]

	clone := donor.CloneAfter(header)
	clone.SetText("New bullet content")

	updated := doc.Paragraphs()
	if len(updated) != 6 {
		t.Fatalf("Expected 6 paragraphs after clone, got %d", len(updated))
	}
	if updated[3].Text() != "New bullet content" {
		t.Errorf("Expected clone right after header, got %q", updated[3].Text())
	}
	if !updated[3].HasNumbering() {
		t.Error("Expected clone to keep the donor's numbering")
	}
	// Donor untouched.
	if donor.Text() != "Led the platform team" {
		t.Errorf("Expected donor unchanged, got %q", donor.Text())
	}

	clone.Remove()
	if len(doc.Paragraphs()) != 5 {
		t.Errorf("Expected 5 paragraphs after remove, got %d", len(doc.Paragraphs()))
	}
}

func TestCloneAtStart(t *testing.T) {
	doc := openTestDoc(t)
	donor := doc.Paragraphs()[1]

	clone := donor.CloneAtStart(doc)
	clone.SetText("john@example.com")

	updated := doc.Paragraphs()
	if len(updated) != 6 {
		t.Fatalf("Expected 6 paragraphs, got %d", len(updated))
	}
	if updated[0].Text() != "john@example.com" {
		t.Errorf("Expected clone first, got %q", updated[0].Text())
	}
}
