package model

import "strings"

// ConfidenceNotOCRd is the sentinel confidence for words that did not come
// from an OCR pass (e.g. words synthesized from born-digital text).
const ConfidenceNotOCRd = -1

// Word is one recognized token with its geometry and structural position.
// Words are immutable once produced by the recognizer; downstream components
// consume them read-only.
type Word struct {
	// Text is the recognized token text.
	Text string `json:"text"`

	// BBox is the token's bounding box in page-pixel coordinates.
	BBox BBox `json:"bbox"`

	// Confidence is the recognizer's confidence, 0-100.
	// ConfidenceNotOCRd marks words that were not OCR'd.
	Confidence float64 `json:"confidence"`

	// Structural indices assigned by the recognizer, all 0-based.
	PageIndex      int `json:"page_index"`
	BlockIndex     int `json:"block_index"`
	ParagraphIndex int `json:"paragraph_index"`
	LineIndex      int `json:"line_index"`
}

// IsBlank returns true if the word's text is empty after trimming whitespace.
func (w Word) IsBlank() bool {
	return strings.TrimSpace(w.Text) == ""
}

// Line is an ordered sequence of words sharing the same structural line,
// sorted by left edge. Lines are ephemeral: the reconstructor builds them,
// renders their text, and discards them within a single call.
type Line struct {
	Words []Word
}

// Text joins the line's word texts with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// BBox returns the union of the line's word boxes, or a zero box for an
// empty line.
func (l Line) BBox() BBox {
	if len(l.Words) == 0 {
		return BBox{}
	}
	box := l.Words[0].BBox
	for _, w := range l.Words[1:] {
		box = box.Union(w.BBox)
	}
	return box
}
