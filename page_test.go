package ledgerocr

import (
	"strings"
	"testing"

	"github.com/ledgerocr/ledgerocr/model"
)

// flatWord builds a word with a zero-height box at the given X, which
// keeps every word inside the content band regardless of position.
func flatWord(text string, line int, x float64) model.Word {
	return model.Word{
		Text:       text,
		BBox:       model.NewBBoxFromEdges(x, 0, x+40, 0),
		Confidence: 90,
		LineIndex:  line,
	}
}

// tallWord builds a word with a 20px box, so pages built from them have
// a real content band with boundary zones to trim.
func tallWord(text string, top float64, x float64) model.Word {
	return model.Word{
		Text:       text,
		BBox:       model.NewBBoxFromEdges(x, top, x+40, top+20),
		Confidence: 90,
	}
}

const fullPageText = `Grace Community Church
GENERAL LEDGER
Period: 01/01/2024 to 01/31/2024
Account: General Fund
Trans#  Type  Date  Num  Name  Memo  Account  Debit  Credit
Check  01/05/2024  Office Depot  125.00
Deposit  01/08/2024  Smith, John  500.00
Total
Page 1 of 3`

// ============================================================================
// Text mode (no word geometry)
// ============================================================================

func TestParsePageTextMode(t *testing.T) {
	result := ParsePage(fullPageText, nil)

	md := result.Metadata
	if md.OrganizationName != "Grace Community Church" {
		t.Errorf("OrganizationName = %q", md.OrganizationName)
	}
	if md.DocumentType != "GENERAL LEDGER" {
		t.Errorf("DocumentType = %q", md.DocumentType)
	}
	if md.PeriodFrom != "01/01/2024" || md.PeriodTo != "01/31/2024" {
		t.Errorf("period = %q to %q", md.PeriodFrom, md.PeriodTo)
	}
	if md.PageNumber != "1" || md.TotalPages != "3" {
		t.Errorf("page = %q of %q", md.PageNumber, md.TotalPages)
	}

	// Four header and two footer lines are trimmed; the column header
	// line inside the body is consumed by header detection.
	if len(result.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2:\n%+v", len(result.Transactions), result.Transactions)
	}

	first := result.Transactions[0]
	if first.Type != "Check" || first.Date != "01/05/2024" || first.Debit != "125.00" {
		t.Errorf("first transaction = %+v", first)
	}
	if first.Memo != "Check  01/05/2024  Office Depot  125.00" {
		t.Errorf("first memo = %q", first.Memo)
	}

	second := result.Transactions[1]
	if second.Type != "Deposit" || second.Date != "01/08/2024" || second.Debit != "500.00" {
		t.Errorf("second transaction = %+v", second)
	}
}

func TestParsePageShortDocument(t *testing.T) {
	// Six lines or fewer leave no body after boundary trimming.
	result := ParsePage("Line one\nLine two\nLine three\nLine four\nLine five\nLine six", nil)

	if result.Transactions == nil {
		t.Fatal("Transactions is nil, want empty slice")
	}
	if len(result.Transactions) != 0 {
		t.Errorf("got %d transactions, want 0", len(result.Transactions))
	}
}

func TestParsePageEmptyText(t *testing.T) {
	result := ParsePage("", nil)

	if result.Metadata != (model.PageMetadata{}) {
		t.Errorf("metadata = %+v, want zero", result.Metadata)
	}
	if result.Transactions == nil || len(result.Transactions) != 0 {
		t.Errorf("Transactions = %v, want empty slice", result.Transactions)
	}
}

func TestParsePageCustomSkips(t *testing.T) {
	// With zero boundary trimming the whole text is the body.
	text := "Check  01/05/2024  Office Depot  125.00"
	result := parsePage(text, nil, 0, 0)

	if len(result.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(result.Transactions))
	}
	if result.Transactions[0].Debit != "125.00" {
		t.Errorf("transaction = %+v", result.Transactions[0])
	}
}

// ============================================================================
// Coordinate mode
// ============================================================================

func TestParsePageWordsJoinSingleSpaced(t *testing.T) {
	// Reconstructed lines join words with single spaces, and the
	// transaction parser splits columns on runs of two or more. A
	// clean reconstructed row therefore never splits into columns,
	// while metadata still comes from the raw text.
	words := []model.Word{
		flatWord("Check", 0, 10),
		flatWord("01/05/2024", 0, 60),
		flatWord("Office", 0, 120),
		flatWord("Depot", 0, 170),
		flatWord("125.00", 0, 230),
	}

	result := ParsePage(fullPageText, words)

	if result.Metadata.OrganizationName != "Grace Community Church" {
		t.Errorf("OrganizationName = %q", result.Metadata.OrganizationName)
	}
	if len(result.Transactions) != 0 {
		t.Errorf("got %d transactions from single-spaced lines, want 0", len(result.Transactions))
	}
}

func TestParsePageWordsConsumedByZonesNoFallback(t *testing.T) {
	// All words sit on one 20px row, so the boundary zones of the
	// content band swallow every word and reconstruction yields no
	// lines. The raw text is not used as a fallback even though it
	// parses cleanly in text mode.
	words := []model.Word{
		tallWord("Check", 100, 10),
		tallWord("125.00", 100, 60),
	}

	result := ParsePage(fullPageText, words)

	if len(result.Transactions) != 0 {
		t.Errorf("got %d transactions, want 0 (no text fallback)", len(result.Transactions))
	}

	// Same text without words does parse.
	textMode := ParsePage(fullPageText, nil)
	if len(textMode.Transactions) == 0 {
		t.Error("control text-mode parse found no transactions")
	}
}

func TestParsePageWordsMetadataUsesRawLineOrder(t *testing.T) {
	// Metadata always reads the raw text, so boundary fields survive
	// even when the word set covers only the body.
	text := strings.Join([]string{
		"STATEMENT",
		"Period: 02/01/2024 to 02/29/2024",
		"ignored",
		"Page 2 of 2",
	}, "\n")
	words := []model.Word{flatWord("ignored", 0, 10)}

	result := ParsePage(text, words)

	if result.Metadata.PeriodFrom != "02/01/2024" {
		t.Errorf("PeriodFrom = %q", result.Metadata.PeriodFrom)
	}
	if result.Metadata.PageNumber != "2" || result.Metadata.TotalPages != "2" {
		t.Errorf("page = %q of %q", result.Metadata.PageNumber, result.Metadata.TotalPages)
	}
}
