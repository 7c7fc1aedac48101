// Package model provides the data types shared across the ledgerocr
// extraction pipeline.
//
// This package defines the user-facing structures that represent recognized
// page content and parsed results. All parsing operations ultimately produce
// these types, making them the primary API for consuming extracted ledgers.
//
// # Recognized input
//
// The [Word] type carries one recognized token from the OCR engine: its text,
// bounding box in page-pixel coordinates, confidence score, and the
// structural indices (page, block, paragraph, line) the engine assigned.
// Words are produced by the ocr package and consumed read-only by the
// coordinate line reconstructor.
//
// # Parsed output
//
// A [TransactionRecord] holds one parsed ledger row in the fixed nine-column
// schema (Trans#, Type, Date, Num, Name, Memo, Account, Debit, Credit).
// Every column is always present; an empty string means "no value".
//
// [PageMetadata] holds the page-level fields recovered from the boundary
// regions: organization, document type, reporting period, and page numbers.
//
// [PageResult] pairs the metadata with the ordered transactions for one
// page, and [DocumentResult] collects the per-page results for a whole
// document.
//
// # Geometry
//
// [BBox] is a bounding box in top-left-origin pixel coordinates (the hOCR
// convention), with intersection, union, and containment helpers.
package model
