package docx

import (
	"regexp"
	"strings"
	"unicode"
)

// Role names the classification of a template paragraph used as a
// formatting donor.
type Role string

// Anchor roles, in the priority order discovery applies them.
const (
	RoleSectionHeader Role = "SectionHeader"
	RoleContact       Role = "Contact"
	RoleBullet        Role = "Bullet"
	RoleBody          Role = "Body"
)

// maxHeaderLen is the longest trimmed text still considered a section
// header.
const maxHeaderLen = 48

var phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)

// Anchors holds one representative paragraph per role, discovered from a
// template document. A nil field means the role is absent from the
// template; callers must branch on absence explicitly rather than assume
// every role exists.
type Anchors struct {
	SectionHeader *Paragraph
	Contact       *Paragraph
	Bullet        *Paragraph
	Body          *Paragraph
}

// DiscoverAnchors scans the document's paragraphs once, in order, and binds
// the first paragraph matching each role. A slot already filled is never
// overwritten, so earlier paragraphs win. The scan stops early once all
// four roles are bound.
func DiscoverAnchors(doc *Document) (anchors Anchors) {
	for _, p := range doc.Paragraphs() {
		text := strings.TrimSpace(p.Text())

		if anchors.SectionHeader == nil && IsSectionHeader(text) {
			anchors.SectionHeader = p
		}
		if anchors.Contact == nil && IsContactLine(text) {
			anchors.Contact = p
		}
		if anchors.Bullet == nil && p.IsBulleted() {
			anchors.Bullet = p
		}
		if anchors.Body == nil && text != "" && !IsSectionHeader(text) && !p.IsBulleted() {
			anchors.Body = p
		}

		if anchors.SectionHeader != nil && anchors.Contact != nil && anchors.Bullet != nil && anchors.Body != nil {
			break
		}
	}
	return anchors
}

// IsSectionHeader reports whether trimmed paragraph text looks like a
// section header: ALL-CAPS, non-empty, and at most 48 characters.
func IsSectionHeader(text string) (result bool) {
	t := strings.TrimSpace(text)
	if t == "" || len([]rune(t)) > maxHeaderLen {
		return result
	}

	hasLetter := false
	for _, r := range t {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return result
			}
		}
	}
	result = hasLetter
	return result
}

// IsContactLine reports whether text looks like resume contact info: an
// email address, a phone number, a professional-network reference, or the
// literal "|" separator contact rows use.
func IsContactLine(text string) (result bool) {
	lower := strings.ToLower(text)
	result = strings.Contains(text, "@") ||
		strings.Contains(lower, "linkedin") ||
		strings.Contains(text, "|") ||
		phonePattern.MatchString(text)
	return result
}
