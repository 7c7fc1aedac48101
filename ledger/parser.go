// Package ledger parses transaction rows out of the body text of an OCR'd
// ledger page.
//
// The parser is heuristic. OCR output carries no table structure, so rows
// are recovered by splitting on runs of whitespace and classifying tokens
// with date and money patterns. A row is emitted as soon as it shows
// any transactional signal (a date or an amount); fields that cannot be
// attributed stay empty and the full line is preserved in Memo so nothing
// is lost. Callers needing reliable cell boundaries should prefer the
// positioned-word path, which feeds this parser cleaner lines.
package ledger

import (
	"regexp"
	"strings"

	"github.com/ledgerocr/ledgerocr/model"
	"github.com/ledgerocr/ledgerocr/patterns"
)

// columnGap splits a row into cells. Ledger software pads columns with at
// least two spaces; single spaces occur inside cell values.
var columnGap = regexp.MustCompile(`\s{2,}`)

// Config holds configuration for the transaction parser.
type Config struct {
	// MinParts is the minimum number of whitespace-separated cells a line
	// must split into to be considered a transaction row (default: 3).
	// Sparser lines are section labels, totals, or noise.
	MinParts int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{MinParts: 3}
}

// Parser extracts transaction records from body text. It is safe for
// concurrent use.
type Parser struct {
	cfg  Config
	pats *patterns.Library
}

// New creates a Parser with default configuration.
func New() *Parser {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Parser with the given configuration.
func NewWithConfig(cfg Config) *Parser {
	return &Parser{cfg: cfg, pats: patterns.Default()}
}

// Parse scans the body text line by line and returns the transaction rows
// it can recover, in page order. Blank lines and the column-header row are
// skipped; only the first line that qualifies as a column header is treated
// as one. Returns nil when no line qualifies.
func (p *Parser) Parse(text string) []model.TransactionRecord {
	var records []model.TransactionRecord

	headerFound := false
	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !headerFound && p.isHeaderLine(line) {
			headerFound = true
			continue
		}

		parts := columnGap.Split(line, -1)
		if len(parts) < p.cfg.MinParts {
			continue
		}

		if rec, ok := p.parseRow(line, parts); ok {
			records = append(records, rec)
		}
	}

	return records
}
