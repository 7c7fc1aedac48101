// Package format provides input file format detection for the ledgerocr
// library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// WEBP indicates a WebP image.
	WEBP
	// TIFF indicates a TIFF image.
	TIFF
	// BMP indicates a Windows bitmap image.
	BMP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case WEBP:
		return "WebP"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case WEBP:
		return ".webp"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	default:
		return ""
	}
}

// IsImage reports whether the format is a raster image that can be OCR'd
// directly, as opposed to a container like PDF that must be unpacked first.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, WEBP, TIFF, BMP:
		return true
	default:
		return false
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".webp":
		return WEBP
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// PNG magic: \x89PNG\r\n\x1a\n
	if bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}) {
		return PNG
	}

	// JPEG magic: FF D8 FF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return JPEG
	}

	// WebP: RIFF container with a WEBP chunk identifier.
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return WEBP
	}

	// TIFF magic: II*\x00 (little-endian) or MM\x00* (big-endian).
	if bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}) {
		return TIFF
	}

	// BMP magic: BM
	if bytes.HasPrefix(data, []byte("BM")) {
		return BMP
	}

	return Unknown
}
