package model

// PageMetadata holds the page-level fields recovered from the boundary
// regions of a ledger page. Every field is optional; the empty string means
// the field was never matched. Created once per page by the metadata
// extractor and never mutated afterward.
type PageMetadata struct {
	OrganizationName string `json:"organization_name"`
	DocumentType     string `json:"document_type"`
	PeriodFrom       string `json:"period_from"`
	PeriodTo         string `json:"period_to"`
	PageNumber       string `json:"page_number"`
	TotalPages       string `json:"total_pages"`
}

// AsMap returns the metadata as a key-to-value map with all six keys
// present, matching the wire shape of the parse API.
func (m PageMetadata) AsMap() map[string]string {
	return map[string]string{
		"organization_name": m.OrganizationName,
		"document_type":     m.DocumentType,
		"period_from":       m.PeriodFrom,
		"period_to":         m.PeriodTo,
		"page_number":       m.PageNumber,
		"total_pages":       m.TotalPages,
	}
}

// PageResult is the output of parsing a single page: its metadata and the
// ordered transactions found in the body region.
type PageResult struct {
	Metadata     PageMetadata        `json:"metadata"`
	Transactions []TransactionRecord `json:"transactions"`
}

// DocumentResult collects the per-page results for one parsed document.
type DocumentResult struct {
	// Filename is the source file name, when parsing came from a file.
	Filename string `json:"filename,omitempty"`

	// Pages holds one result per parsed page, in page order.
	Pages []PageResult `json:"pages"`
}

// NewDocumentResult creates an empty document result.
func NewDocumentResult() *DocumentResult {
	return &DocumentResult{Pages: make([]PageResult, 0)}
}

// AddPage appends a page result.
func (d *DocumentResult) AddPage(page PageResult) {
	d.Pages = append(d.Pages, page)
}

// PageCount returns the number of parsed pages.
func (d *DocumentResult) PageCount() int {
	return len(d.Pages)
}

// Transactions returns all transactions across pages, in page order.
func (d *DocumentResult) Transactions() []TransactionRecord {
	var all []TransactionRecord
	for _, p := range d.Pages {
		all = append(all, p.Transactions...)
	}
	return all
}
