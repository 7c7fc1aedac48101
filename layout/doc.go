// Package layout recovers the transactional body of a ledger page from
// either shape OCR output takes.
//
// For plain page text, [IsolateBody] trims a fixed number of boilerplate
// lines from each end. For positioned words, [Reconstructor] filters out
// low-confidence words, drops words sitting in the header and footer zones
// of the content band, and reassembles the survivors into reading-order
// text lines using their block, paragraph, and line indices.
package layout
