//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting text and positioned words from scanned ledger pages.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Build with the "ocr" tag to compile this implementation in:
//
//	go build -tags ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ledgerocr/ledgerocr/model"
)

// Enabled reports whether OCR support was compiled in.
func Enabled() bool {
	return true
}

// PageSegMode represents page segmentation modes for OCR.
// These mirror gosseract's constants so callers compile identically
// with and without the ocr build tag.
type PageSegMode = gosseract.PageSegMode

const (
	PSM_OSD_ONLY               = gosseract.PSM_OSD_ONLY
	PSM_AUTO_OSD               = gosseract.PSM_AUTO_OSD
	PSM_AUTO_ONLY              = gosseract.PSM_AUTO_ONLY
	PSM_AUTO                   = gosseract.PSM_AUTO
	PSM_SINGLE_COLUMN          = gosseract.PSM_SINGLE_COLUMN
	PSM_SINGLE_BLOCK_VERT_TEXT = gosseract.PSM_SINGLE_BLOCK_VERT_TEXT
	PSM_SINGLE_BLOCK           = gosseract.PSM_SINGLE_BLOCK
	PSM_SINGLE_LINE            = gosseract.PSM_SINGLE_LINE
	PSM_SINGLE_WORD            = gosseract.PSM_SINGLE_WORD
	PSM_CIRCLE_WORD            = gosseract.PSM_CIRCLE_WORD
	PSM_SINGLE_CHAR            = gosseract.PSM_SINGLE_CHAR
	PSM_SPARSE_TEXT            = gosseract.PSM_SPARSE_TEXT
	PSM_SPARSE_TEXT_OSD        = gosseract.PSM_SPARSE_TEXT_OSD
	PSM_RAW_LINE               = gosseract.PSM_RAW_LINE
)

// Client wraps Tesseract for OCR operations. A Client is not safe for
// concurrent use; create one per goroutine.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeWords performs OCR on image data and returns both the recognized
// page text and the positioned words from the engine's hOCR output. The
// words carry bounding boxes, confidences, and the structural indices line
// reconstruction depends on.
func (c *Client) RecognizeWords(imageData []byte) (string, []model.Word, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", nil, fmt.Errorf("OCR failed: %w", err)
	}

	hocr, err := c.client.HOCRText()
	if err != nil {
		return "", nil, fmt.Errorf("OCR layout failed: %w", err)
	}

	words, err := ParseHOCR(strings.NewReader(hocr))
	if err != nil {
		return "", nil, err
	}

	return strings.TrimSpace(text), words, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
