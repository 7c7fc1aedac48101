package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerocr/ledgerocr/model"
)

func sampleDocument() *model.DocumentResult {
	doc := model.NewDocumentResult()
	doc.Filename = "ledger.pdf"
	doc.AddPage(model.PageResult{
		Metadata: model.PageMetadata{
			OrganizationName: "Grace Community Church",
			DocumentType:     "General Ledger",
			PageNumber:       "1",
		},
		Transactions: []model.TransactionRecord{
			{Type: "Check", Date: "01/05/2024", Name: "Office Depot", Memo: "Check  01/05/2024  Office Depot  125.00", Debit: "125.00"},
			{Type: "Deposit", Date: "01/08/2024", Name: "Smith, John", Memo: "Deposit  01/08/2024  Smith, John  50.25", Credit: "50.25"},
		},
	})
	doc.AddPage(model.PageResult{
		Metadata: model.PageMetadata{PageNumber: "2"},
		Transactions: []model.TransactionRecord{
			{Type: "Check", Date: "01/12/2024", Name: "Utility Co", Memo: "Check  01/12/2024  Utility Co  0.10", Debit: "0.10"},
		},
	})
	return doc
}

// ============================================================================
// CSV
// ============================================================================

func TestRows(t *testing.T) {
	rows := Rows(sampleDocument())

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].Page != 1 || rows[1].Page != 1 || rows[2].Page != 2 {
		t.Errorf("page numbers = %d,%d,%d, want 1,1,2", rows[0].Page, rows[1].Page, rows[2].Page)
	}
	if rows[2].Name != "Utility Co" || rows[2].Debit != "0.10" {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleDocument()); err != nil {
		t.Fatalf("CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("CSV line count = %d, want header plus 3 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Page,Trans#,Type,Date,Num,Name,Memo,Account,Debit,Credit" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"Smith, John"`) {
		t.Errorf("comma-bearing name not quoted: %q", lines[2])
	}
	if !strings.HasPrefix(lines[1], "1,,Check,01/05/2024,") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestCSVEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, model.NewDocumentResult()); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	got := strings.TrimRight(buf.String(), "\n")
	if got != "Page,Trans#,Type,Date,Num,Name,Memo,Account,Debit,Credit" {
		t.Errorf("empty document CSV = %q, want header only", got)
	}
}

// ============================================================================
// JSON
// ============================================================================

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := JSON(&buf, doc); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var back model.DocumentResult
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("round trip unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&back, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", back, *doc)
	}
}

// ============================================================================
// Totals
// ============================================================================

func TestSummarize(t *testing.T) {
	totals := Summarize(sampleDocument())

	if totals.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3", totals.Transactions)
	}
	if want := decimal.RequireFromString("125.10"); !totals.Debits.Equal(want) {
		t.Errorf("Debits = %s, want %s", totals.Debits, want)
	}
	if want := decimal.RequireFromString("50.25"); !totals.Credits.Equal(want) {
		t.Errorf("Credits = %s, want %s", totals.Credits, want)
	}
	if want := decimal.RequireFromString("74.85"); !totals.Net().Equal(want) {
		t.Errorf("Net = %s, want %s", totals.Net(), want)
	}
	if totals.BadAmounts != 0 {
		t.Errorf("BadAmounts = %d, want 0", totals.BadAmounts)
	}
}

func TestSummarizeBadAmounts(t *testing.T) {
	doc := model.NewDocumentResult()
	doc.AddPage(model.PageResult{
		Transactions: []model.TransactionRecord{
			{Date: "01/05/2024", Debit: "not-a-number", Credit: "10.00"},
		},
	})

	totals := Summarize(doc)
	if totals.BadAmounts != 1 {
		t.Errorf("BadAmounts = %d, want 1", totals.BadAmounts)
	}
	if want := decimal.RequireFromString("10"); !totals.Credits.Equal(want) {
		t.Errorf("Credits = %s, want %s", totals.Credits, want)
	}
	if !totals.Debits.Equal(decimal.Zero) {
		t.Errorf("Debits = %s, want 0", totals.Debits)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	totals := Summarize(model.NewDocumentResult())
	if totals.Transactions != 0 || !totals.Net().Equal(decimal.Zero) {
		t.Errorf("empty totals = %+v", totals)
	}
}
