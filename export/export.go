// Package export renders parse results as CSV or JSON for downstream
// bookkeeping tools, and computes exact monetary totals.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/ledgerocr/ledgerocr/model"
)

// Row is one CSV line: the page the transaction came from plus the
// nine ledger columns.
type Row struct {
	Page     int    `csv:"Page"`
	TransNum string `csv:"Trans#"`
	Type     string `csv:"Type"`
	Date     string `csv:"Date"`
	Num      string `csv:"Num"`
	Name     string `csv:"Name"`
	Memo     string `csv:"Memo"`
	Account  string `csv:"Account"`
	Debit    string `csv:"Debit"`
	Credit   string `csv:"Credit"`
}

// Rows flattens a document into CSV rows. Pages are numbered from 1 in
// document order, independent of any page number printed on the scan.
func Rows(doc *model.DocumentResult) []Row {
	rows := make([]Row, 0, len(doc.Transactions()))
	for i, page := range doc.Pages {
		for _, tx := range page.Transactions {
			rows = append(rows, Row{
				Page:     i + 1,
				TransNum: tx.TransNum,
				Type:     tx.Type,
				Date:     tx.Date,
				Num:      tx.Num,
				Name:     tx.Name,
				Memo:     tx.Memo,
				Account:  tx.Account,
				Debit:    tx.Debit,
				Credit:   tx.Credit,
			})
		}
	}
	return rows
}

// CSV writes the document's transactions to w as CSV with a header row.
func CSV(w io.Writer, doc *model.DocumentResult) error {
	rows := Rows(doc)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// JSON writes the full document result to w as indented JSON.
func JSON(w io.Writer, doc *model.DocumentResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// Totals holds exact sums over the monetary columns.
type Totals struct {
	Transactions int             `json:"transactions"`
	Debits       decimal.Decimal `json:"debits"`
	Credits      decimal.Decimal `json:"credits"`

	// BadAmounts counts monetary values that failed to parse and were
	// left out of the sums.
	BadAmounts int `json:"bad_amounts,omitempty"`
}

// Net returns debits minus credits.
func (t Totals) Net() decimal.Decimal {
	return t.Debits.Sub(t.Credits)
}

// Summarize totals the document's monetary columns using exact decimal
// arithmetic. Values that fail to parse are counted in BadAmounts.
func Summarize(doc *model.DocumentResult) Totals {
	var t Totals
	for _, tx := range doc.Transactions() {
		t.Transactions++
		if tx.Debit != "" {
			if d, err := decimal.NewFromString(tx.Debit); err == nil {
				t.Debits = t.Debits.Add(d)
			} else {
				t.BadAmounts++
			}
		}
		if tx.Credit != "" {
			if c, err := decimal.NewFromString(tx.Credit); err == nil {
				t.Credits = t.Credits.Add(c)
			} else {
				t.BadAmounts++
			}
		}
	}
	return t
}
