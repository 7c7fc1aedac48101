package ledgerocr

import (
	"fmt"
	"strings"
)

// Warning codes reported by terminal operations.
const (
	// WarnPageImage means a page's scan image could not be extracted;
	// the page result is present but empty.
	WarnPageImage = "page-image"

	// WarnPreprocess means image cleanup failed and OCR ran on the
	// original scan instead.
	WarnPreprocess = "preprocess-failed"

	// WarnOCRFailed means recognition failed for a page; the page
	// result is present but empty.
	WarnOCRFailed = "ocr-failed"

	// WarnEmptyPage means OCR produced no text for the page.
	WarnEmptyPage = "empty-page"

	// WarnNoTransactions means the page had text but no row survived
	// transaction parsing.
	WarnNoTransactions = "no-transactions"

	// WarnLowConfidence means the mean OCR word confidence for the
	// page fell below the reporting threshold.
	WarnLowConfidence = "ocr-low-confidence"

	// WarnCacheWrite means the parse succeeded but its result could
	// not be stored in the cache.
	WarnCacheWrite = "cache-write"
)

// Warning describes a non-fatal issue encountered while parsing.
// Processing continued, but the results for the named page may be
// incomplete.
type Warning struct {
	// Code identifies the kind of issue.
	Code string

	// Message is a human-readable description.
	Message string

	// Page is the 1-indexed page the warning applies to, or 0 for
	// document-scoped warnings.
	Page int
}

// String renders the warning as "[code] message (page N)".
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] %s (page %d)", w.Code, w.Message, w.Page)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings renders warnings as a single semicolon-separated string,
// suitable for logging.
//
// Example:
//
//	doc, warnings, err := ledgerocr.Open("ledger.pdf").Parse()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ledgerocr.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

func pageWarning(code string, page int, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...), Page: page}
}
