package ocr

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText canonicalizes recognized text before parsing: Unicode is
// composed to NFC, since OCR engines may emit decomposed accents that break
// substring matching, and line endings are folded to bare newlines.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
