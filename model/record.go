package model

// Canonical column names for ledger transaction rows, in header order.
// The order matters for column-header detection.
const (
	ColTransNum = "Trans#"
	ColType     = "Type"
	ColDate     = "Date"
	ColNum      = "Num"
	ColName     = "Name"
	ColMemo     = "Memo"
	ColAccount  = "Account"
	ColDebit    = "Debit"
	ColCredit   = "Credit"
)

// ColumnNames returns the canonical ordered list of expected column names.
func ColumnNames() []string {
	return []string{
		ColTransNum, ColType, ColDate, ColNum, ColName,
		ColMemo, ColAccount, ColDebit, ColCredit,
	}
}

// TransactionRecord is one parsed ledger row in the fixed nine-column
// schema. Every column is always present; the empty string means "no value".
// Monetary fields, when set, hold a decimal string with no currency symbol
// and no thousands separators. Records are immutable once emitted by the
// parser.
type TransactionRecord struct {
	TransNum string `json:"Trans#" csv:"Trans#"`
	Type     string `json:"Type" csv:"Type"`
	Date     string `json:"Date" csv:"Date"`
	Num      string `json:"Num" csv:"Num"`
	Name     string `json:"Name" csv:"Name"`
	Memo     string `json:"Memo" csv:"Memo"`
	Account  string `json:"Account" csv:"Account"`
	Debit    string `json:"Debit" csv:"Debit"`
	Credit   string `json:"Credit" csv:"Credit"`
}

// Get returns the value for a canonical column name, and whether the name
// is one of the nine known columns.
func (r TransactionRecord) Get(column string) (string, bool) {
	switch column {
	case ColTransNum:
		return r.TransNum, true
	case ColType:
		return r.Type, true
	case ColDate:
		return r.Date, true
	case ColNum:
		return r.Num, true
	case ColName:
		return r.Name, true
	case ColMemo:
		return r.Memo, true
	case ColAccount:
		return r.Account, true
	case ColDebit:
		return r.Debit, true
	case ColCredit:
		return r.Credit, true
	default:
		return "", false
	}
}

// AsMap returns the record as a column-name-to-value map with all nine keys
// present, matching the wire shape of the parse API.
func (r TransactionRecord) AsMap() map[string]string {
	return map[string]string{
		ColTransNum: r.TransNum,
		ColType:     r.Type,
		ColDate:     r.Date,
		ColNum:      r.Num,
		ColName:     r.Name,
		ColMemo:     r.Memo,
		ColAccount:  r.Account,
		ColDebit:    r.Debit,
		ColCredit:   r.Credit,
	}
}

// HasAmount returns true if either monetary column is set.
func (r TransactionRecord) HasAmount() bool {
	return r.Debit != "" || r.Credit != ""
}
