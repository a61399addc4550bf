package codec

import "fmt"

// DriftError reports that a cloned paragraph's formatting signature no
// longer matches the anchor it was cloned from. It is fatal: the caller
// must abort the whole conversion rather than write partially formatted
// output.
type DriftError struct {
	Section string
	Line    string
}

func (e *DriftError) Error() (msg string) {
	msg = fmt.Sprintf("formatting drift detected in section %q: cloned paragraph %q does not match its anchor", e.Section, e.Line)
	return msg
}

// MissingAnchorError reports that a section has content to render but no
// usable formatting anchor of any kind exists.
type MissingAnchorError struct {
	Section string
}

func (e *MissingAnchorError) Error() (msg string) {
	msg = fmt.Sprintf("no formatting anchor available for section %q", e.Section)
	return msg
}
