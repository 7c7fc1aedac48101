//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestPNG creates a simple PNG image with a block pattern for testing.
// OCR may or may not recognize anything in it; the tests only verify the
// calls complete.
func createTestPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if client == nil {
		t.Error("Expected non-nil client")
	}
	if !Enabled() {
		t.Error("Enabled() = false in a build with the ocr tag")
	}
}

func TestRecognizeImage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	pngData := createTestPNG(100, 50)

	// The test image is just a rectangle, so the text content is not
	// checked, only that recognition completes.
	if _, err := client.RecognizeImage(pngData); err != nil {
		t.Errorf("RecognizeImage failed: %v", err)
	}
}

func TestRecognizeWords(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	pngData := createTestPNG(100, 50)

	_, words, err := client.RecognizeWords(pngData)
	if err != nil {
		t.Fatalf("RecognizeWords failed: %v", err)
	}
	for _, w := range words {
		if w.Confidence < 0 || w.Confidence > 100 {
			t.Errorf("word %q confidence %v out of range", w.Text, w.Confidence)
		}
	}
}

func TestSetLanguage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		t.Errorf("SetLanguage failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	client.client = nil
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client failed: %v", err)
	}
}
