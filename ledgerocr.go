// Package ledgerocr provides a fluent API for parsing scanned financial
// ledger pages into structured transaction records.
//
// Basic usage:
//
//	doc, warnings, err := ledgerocr.Open("ledger.pdf").Parse()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ledgerocr.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").
//	    Pages(1, 2, 3).
//	    Language("eng").
//	    Cache("").
//	    Parse()
//
// OCR requires building with the "ocr" tag and a Tesseract installation.
// Pages that were already OCR'd elsewhere can be parsed without either,
// via ParsePage.
package ledgerocr

import (
	"github.com/ledgerocr/ledgerocr/format"
)

// Open prepares the file at filename for parsing and returns an
// Extractor for fluent configuration. The file is not read until a
// terminal operation runs.
//
// Example:
//
//	doc, warnings, err := ledgerocr.Open("ledger.pdf").Parse()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// FromBytes prepares an in-memory document for parsing. The format is
// detected from the content's magic bytes. The optional filename is
// carried through to the result for labeling only.
//
// Example:
//
//	doc, warnings, err := ledgerocr.FromBytes(data, "upload.pdf").Parse()
func FromBytes(data []byte, filename string) *Extractor {
	return &Extractor{
		filename: filename,
		content:  data,
		format:   format.DetectFromMagic(data),
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := ledgerocr.Must(ledgerocr.Open("ledger.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustParse is a helper that wraps a call to Parse() or Text() and
// panics if the error is non-nil. It discards warnings and returns just
// the value.
//
// Example:
//
//	doc := ledgerocr.MustParse(ledgerocr.Open("ledger.pdf").Parse())
func MustParse[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
