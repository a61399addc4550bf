// Package docx reads and writes Word documents while preserving their
// formatting exactly. The main document part is parsed into a
// structure-preserving XML tree; every other part of the package (styles,
// numbering definitions, themes, relationships) is carried through the
// container verbatim. New paragraphs are never synthesized from scratch:
// they are cloned from existing paragraphs so that every formatting property
// survives untouched.
package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const documentPart = "word/document.xml"

// Document is an in-memory Word document. It holds the parsed main document
// part plus the raw bytes of every other part in the container.
type Document struct {
	sourcePath string
	partNames  []string
	parts      map[string][]byte
	topLevel   []*Node
	body       *Node
}

// Open loads a .docx file from disk. It fails if the file is not a valid
// container, has no main document part, or contains no paragraphs.
func Open(path string) (doc *Document, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read document: %s", path)
		return doc, err
	}

	doc, err = Load(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrapf(err, "failed to load document: %s", path)
		return doc, err
	}

	doc.sourcePath = path
	return doc, err
}

// Load parses a .docx container from a reader.
func Load(r io.ReaderAt, size int64) (doc *Document, err error) {
	var zr *zip.Reader
	zr, err = zip.NewReader(r, size)
	if err != nil {
		err = errors.Wrap(err, "not a valid docx container")
		return doc, err
	}

	doc = &Document{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		var rc io.ReadCloser
		rc, err = f.Open()
		if err != nil {
			err = errors.Wrapf(err, "failed to open part: %s", f.Name)
			return doc, err
		}
		var content []byte
		content, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			err = errors.Wrapf(err, "failed to read part: %s", f.Name)
			return doc, err
		}
		doc.partNames = append(doc.partNames, f.Name)
		doc.parts[f.Name] = content
	}

	docXML, found := doc.parts[documentPart]
	if !found {
		err = errors.Errorf("missing %s part", documentPart)
		return doc, err
	}

	doc.topLevel, err = parseXML(docXML)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s", documentPart)
		return doc, err
	}

	doc.body, err = findBody(doc.topLevel)
	if err != nil {
		return doc, err
	}

	if len(doc.Paragraphs()) == 0 {
		err = errors.New("document contains no paragraphs")
		return doc, err
	}

	return doc, err
}

// findBody locates the w:body element under the document root.
func findBody(topLevel []*Node) (body *Node, err error) {
	for _, n := range topLevel {
		if n.Name == "w:document" {
			body = n.FirstChild("w:body")
			if body == nil {
				err = errors.New("document has no w:body element")
			}
			return body, err
		}
	}
	err = errors.New("document has no w:document root element")
	return body, err
}

// SourcePath returns the path the document was opened from, if any.
func (d *Document) SourcePath() (path string) {
	path = d.sourcePath
	return path
}

// Paragraphs returns the document's top-level paragraphs in order.
func (d *Document) Paragraphs() (paragraphs []*Paragraph) {
	for _, c := range d.body.ChildrenNamed("w:p") {
		paragraphs = append(paragraphs, &Paragraph{node: c, doc: d})
	}
	return paragraphs
}

// Clone returns an independent deep copy of the document. Mutating the copy
// never affects the original, so a template can stay read-only while its
// clone is rewritten.
func (d *Document) Clone() (clone *Document) {
	clone = &Document{
		sourcePath: d.sourcePath,
		partNames:  append([]string(nil), d.partNames...),
		parts:      make(map[string][]byte, len(d.parts)),
	}
	for name, content := range d.parts {
		clone.parts[name] = content
	}
	for _, n := range d.topLevel {
		clone.topLevel = append(clone.topLevel, n.Clone())
	}
	// Re-resolve the body pointer inside the cloned tree.
	body, err := findBody(clone.topLevel)
	if err != nil {
		// The original was validated at load time, so the clone has a body.
		panic(err)
	}
	clone.body = body
	return clone
}

// SaveAs serializes the document to a new .docx file. Writing back to the
// path the document was opened from is refused: the template is read-only
// input and output is always a fresh artifact.
func (d *Document) SaveAs(path string) (err error) {
	if d.sourcePath != "" && sameFilePath(path, d.sourcePath) {
		err = errors.Errorf("refusing to overwrite source document: %s", path)
		return err
	}

	var docXML bytes.Buffer
	for _, n := range d.topLevel {
		docXML.WriteString(n.String())
	}

	outDir := filepath.Dir(path)
	err = os.MkdirAll(outDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outDir)
		return err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.partNames {
		content := d.parts[name]
		if name == documentPart {
			content = docXML.Bytes()
		}
		var w io.Writer
		w, err = zw.Create(name)
		if err != nil {
			err = errors.Wrapf(err, "failed to create zip entry: %s", name)
			return err
		}
		_, err = w.Write(content)
		if err != nil {
			err = errors.Wrapf(err, "failed to write zip entry: %s", name)
			return err
		}
	}
	err = zw.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to finalize docx container")
		return err
	}

	err = os.WriteFile(path, buf.Bytes(), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write document: %s", path)
		return err
	}

	return err
}

// sameFilePath compares two paths after cleaning and absolutizing.
func sameFilePath(a, b string) (result bool) {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		result = filepath.Clean(a) == filepath.Clean(b)
		return result
	}
	result = absA == absB
	return result
}
