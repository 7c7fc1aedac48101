// Package metadata extracts page-level metadata from the boundary regions of
// an OCR'd ledger page: organization name, document type, reporting period,
// and page numbering.
//
// Extraction is heuristic. The scan window adapts to the page length, title
// fields are only taken from the first few lines, and every field keeps its
// first match so later boilerplate cannot overwrite it. Fields that cannot
// be found are left empty rather than guessed.
package metadata

import (
	"strings"
	"unicode"

	"github.com/ledgerocr/ledgerocr/model"
	"github.com/ledgerocr/ledgerocr/patterns"
)

// Config controls the boundary scan.
type Config struct {
	// MaxWindow caps the adaptive scan window. The effective window is
	// half the page's line count, at least 1, at most MaxWindow. The
	// header scan covers twice the window; the footer scan covers one.
	MaxWindow int

	// TitleLineLimit is the number of leading lines eligible to become
	// the organization name or document type.
	TitleLineLimit int

	// OrgKeywords mark a line as an organization name when present
	// case-insensitively. An all-caps line qualifies without a keyword.
	OrgKeywords []string

	// DocTypeKeywords mark a line as a document type when present
	// case-insensitively.
	DocTypeKeywords []string
}

// DefaultConfig returns the scan settings tuned for ledger and statement
// pages produced by small-organization accounting software.
func DefaultConfig() Config {
	return Config{
		MaxWindow:       5,
		TitleLineLimit:  3,
		OrgKeywords:     []string{"church", "organization"},
		DocTypeKeywords: []string{"ledger", "journal", "statement"},
	}
}

// Extractor scans page boundaries for metadata. It is safe for concurrent
// use.
type Extractor struct {
	cfg  Config
	pats *patterns.Library
}

// New returns an Extractor with DefaultConfig.
func New() *Extractor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns an Extractor with the given scan settings.
func NewWithConfig(cfg Config) *Extractor {
	return &Extractor{cfg: cfg, pats: patterns.Default()}
}

// Extract scans the header and footer regions of the page text and returns
// whatever metadata it can find. Missing fields are empty strings.
func (e *Extractor) Extract(text string) model.PageMetadata {
	var md model.PageMetadata

	lines := strings.Split(strings.TrimSpace(text), "\n")

	window := len(lines) / 2
	if window < 1 {
		window = 1
	}
	if window > e.cfg.MaxWindow {
		window = e.cfg.MaxWindow
	}

	headerEnd := 2 * window
	if headerEnd > len(lines) {
		headerEnd = len(lines)
	}
	for i := 0; i < headerEnd; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if md.PeriodFrom == "" {
			if from, to, ok := e.pats.MatchPeriod(line); ok {
				md.PeriodFrom = from
				md.PeriodTo = to
			}
		}

		if i >= e.cfg.TitleLineLimit {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case md.OrganizationName == "" && (containsAny(lower, e.cfg.OrgKeywords) || isAllCaps(line)):
			// A line that states the reporting period is never a title,
			// even when it is all caps.
			if _, _, ok := e.pats.MatchPeriod(line); !ok {
				md.OrganizationName = line
			}
		case md.DocumentType == "" && (containsAny(lower, e.cfg.DocTypeKeywords) ||
			(isAllCaps(line) && line != md.OrganizationName)):
			if _, _, ok := e.pats.MatchPeriod(line); !ok {
				md.DocumentType = line
			}
		}
	}

	footerStart := len(lines) - window
	if footerStart < 0 {
		footerStart = 0
	}
	for i := footerStart; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if md.PageNumber == "" {
			if page, total, ok := e.pats.MatchPageNumber(line); ok {
				md.PageNumber = page
				if total != "" {
					md.TotalPages = total
				}
			}
		}
	}

	return md
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isAllCaps reports whether the line contains at least one cased letter and
// no lowercase letters.
func isAllCaps(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}
