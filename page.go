package ledgerocr

import (
	"strings"

	"github.com/ledgerocr/ledgerocr/layout"
	"github.com/ledgerocr/ledgerocr/ledger"
	"github.com/ledgerocr/ledgerocr/metadata"
	"github.com/ledgerocr/ledgerocr/model"
)

// ParsePage parses one page of already-OCR'd ledger text into metadata
// and transaction records. It needs no OCR support compiled in, which
// makes it the entry point for text produced by other OCR pipelines.
//
// Page metadata is always recovered from the raw text, whose line order
// reflects the printed page. Transaction parsing depends on words: when
// word geometry is available the body lines are rebuilt from
// coordinates, which survives the column drift of skewed scans; without
// geometry a fixed number of boundary lines is trimmed instead.
//
// Example:
//
//	result := ledgerocr.ParsePage(pageText, words)
//	for _, tx := range result.Transactions {
//	    fmt.Println(tx.Date, tx.Name, tx.Debit, tx.Credit)
//	}
func ParsePage(text string, words []model.Word) model.PageResult {
	return parsePage(text, words, layout.DefaultHeaderSkip, layout.DefaultFooterSkip)
}

// parsePage is the single-page pipeline behind ParsePage and Parse.
// Transactions is always non-nil so page results serialize uniformly.
func parsePage(text string, words []model.Word, headerSkip, footerSkip int) model.PageResult {
	md := metadata.New().Extract(text)

	records := []model.TransactionRecord{}
	parser := ledger.New()

	if len(words) > 0 {
		// Coordinate mode. When reconstruction yields no lines the page
		// has no transactions; the raw text path is not a fallback here.
		lines := layout.NewReconstructor().ReconstructLines(words)
		if len(lines) > 0 {
			if recs := parser.Parse(strings.Join(lines, "\n")); recs != nil {
				records = recs
			}
		}
	} else {
		body := layout.IsolateBody(text, headerSkip, footerSkip)
		if strings.TrimSpace(body) != "" {
			if recs := parser.Parse(body); recs != nil {
				records = recs
			}
		}
	}

	return model.PageResult{Metadata: md, Transactions: records}
}
