package ledger

import (
	"strings"

	"github.com/ledgerocr/ledgerocr/model"
)

// keyColumns must all appear in a line before it can be a column header.
var keyColumns = []string{"date", "debit", "credit", "name"}

// isHeaderLine reports whether the line names the table's columns rather
// than holding data. It must contain every key column, at least four of the
// full expected-column names, and both a date column and an amount column,
// all as case-insensitive substrings.
func (p *Parser) isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, key := range keyColumns {
		if !strings.Contains(lower, key) {
			return false
		}
	}

	found := 0
	hasDate := false
	hasAmount := false
	for _, col := range model.ColumnNames() {
		if !strings.Contains(lower, strings.ToLower(col)) {
			continue
		}
		found++
		switch col {
		case model.ColDate:
			hasDate = true
		case model.ColDebit, model.ColCredit:
			hasAmount = true
		}
	}
	return found >= 4 && hasDate && hasAmount
}

// parseRow classifies the cells of one line into a transaction record.
// The line qualifies only when it shows a date or at least one amount.
func (p *Parser) parseRow(line string, parts []string) (model.TransactionRecord, bool) {
	var rec model.TransactionRecord

	if date, ok := p.pats.FindDate(line); ok {
		rec.Date = date
	}

	var amounts []string
	for _, part := range parts {
		if p.pats.IsMoney(part) {
			amounts = append(amounts, part)
		}
	}
	switch {
	case len(amounts) == 1:
		// A lone amount cannot be attributed without column positions.
		// Debit is the dominant single-amount column in ledger exports.
		rec.Debit = p.pats.NormalizeAmount(amounts[0])
	case len(amounts) >= 2:
		// Debit-then-credit ordering, reading the rightmost pair.
		rec.Debit = p.pats.NormalizeAmount(amounts[len(amounts)-2])
		rec.Credit = p.pats.NormalizeAmount(amounts[len(amounts)-1])
	}

	if rec.Date == "" && rec.Debit == "" && rec.Credit == "" {
		return rec, false
	}

	// The leading cell is a transaction type (Check, Deposit, Transfer)
	// unless it already reads as a date or an amount.
	if !p.pats.HasDate(parts[0]) && !p.pats.IsMoney(parts[0]) {
		rec.Type = parts[0]
	}
	if rec.Type != "" {
		rec.Name = parts[1]
	} else {
		rec.Name = parts[0]
	}

	// The whole line is kept as the memo so no cell content is lost to
	// misclassification.
	rec.Memo = line

	return rec, true
}
