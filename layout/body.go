package layout

import "strings"

// Default line counts trimmed from a page when isolating the body from
// plain OCR text. Ledger software reliably emits a title block of about
// four lines and a short totals/page footer.
const (
	DefaultHeaderSkip = 4
	DefaultFooterSkip = 2
)

// IsolateBody removes the first headerSkip and last footerSkip lines from
// the page text and returns what remains. When the page is too short to
// have a body between the trimmed regions, it returns "".
//
// The cut is positional, not content-aware; metadata extraction reads the
// trimmed regions separately.
func IsolateBody(text string, headerSkip, footerSkip int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	start := headerSkip
	if start < 0 {
		start = 0
	}
	end := len(lines) - footerSkip
	if end > len(lines) {
		end = len(lines)
	}

	if start >= len(lines) || end <= 0 || start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
