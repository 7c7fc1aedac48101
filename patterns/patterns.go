// Package patterns holds the compiled regular expressions used to recognize
// dates, monetary amounts, reporting-period phrases, and page-number phrases
// in OCR'd ledger text.
//
// The patterns are deliberately forgiving: OCR output is noisy and the
// upstream recognizer guarantees no schema. A token that fails the money
// pattern is never treated as an amount; everything else degrades to
// "no value" rather than guessing.
package patterns

import (
	"regexp"
	"strings"
)

const (
	// moneyPattern matches a full token that looks like a monetary value:
	// optional leading $, digit groups optionally thousands-separated by
	// commas, optional exactly-two-decimal fractional part, or a bare .NN.
	moneyPattern = `^\$?((\d{1,3}(,\d{3})*|\d+)(\.\d{2})?|\.\d{2})$`

	// datePattern matches numeric dates with - or / separators (date-first
	// or year-first, 2-4 digit year) or a month-name form like "Jan 5, 2024".
	datePattern = `(?i)\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{4}[-/]\d{1,2}[-/]\d{1,2}|` +
		`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s\d{1,2},\s\d{4})\b`

	// periodPattern matches reporting-period phrases such as
	// "Period: 01/01/2024 to 01/31/2024" or "For the period Jan 1, 2024
	// through Jan 31, 2024", capturing the two date-like spans verbatim.
	// The optional "from" connective keeps it out of the first capture.
	periodPattern = `(?i)(?:Period|Dates|From|For the period|For period)\s*:?\s*(?:from\s+)?` +
		`([\w\s,.月日年/-]+?)\s*(?:to|-|–|through|until)\s*([\w\s,.月日年/-]+)`

	// pageNumberPattern matches "Page X", "Page X of Y", "P. X/Y" and the like.
	pageNumberPattern = `(?i)(?:Page|P\.?)\s*(\d+)(?:\s*(?:of|/)\s*(\d+))?`
)

// Library is the immutable compiled pattern set shared by the extraction
// components. Construct it once with Default and pass it by reference; it is
// safe for concurrent use.
type Library struct {
	money      *regexp.Regexp
	date       *regexp.Regexp
	period     *regexp.Regexp
	pageNumber *regexp.Regexp
}

var defaultLibrary = &Library{
	money:      regexp.MustCompile(moneyPattern),
	date:       regexp.MustCompile(datePattern),
	period:     regexp.MustCompile(periodPattern),
	pageNumber: regexp.MustCompile(pageNumberPattern),
}

// Default returns the shared pattern library.
func Default() *Library {
	return defaultLibrary
}

// IsMoney reports whether the whole token looks like a monetary value.
func (l *Library) IsMoney(token string) bool {
	return l.money.MatchString(token)
}

// NormalizeAmount strips the currency symbol and thousands separators from a
// token that matched the money pattern, leaving a plain decimal string.
func (l *Library) NormalizeAmount(token string) string {
	token = strings.ReplaceAll(token, "$", "")
	return strings.ReplaceAll(token, ",", "")
}

// FindDate returns the first date-like substring in s, if any.
func (l *Library) FindDate(s string) (string, bool) {
	m := l.date.FindString(s)
	return m, m != ""
}

// HasDate reports whether s contains a date-like substring.
func (l *Library) HasDate(s string) bool {
	return l.date.MatchString(s)
}

// MatchPeriod searches s for a reporting-period phrase and returns the two
// captured spans, trimmed. The spans are verbatim text; no date
// normalization is applied.
func (l *Library) MatchPeriod(s string) (from, to string, ok bool) {
	m := l.period.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// MatchPageNumber searches s for a page-number phrase. The total is empty
// when the phrase carries no "of Y" part.
func (l *Library) MatchPageNumber(s string) (page, total string, ok bool) {
	m := l.pageNumber.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
