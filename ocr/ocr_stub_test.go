//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestEnabledFalse(t *testing.T) {
	if Enabled() {
		t.Error("Enabled() = true in a build without the ocr tag")
	}
}

func TestStubOperationsReturnError(t *testing.T) {
	c := &Client{}

	if _, err := c.RecognizeImage(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage error = %v, want ErrOCRNotEnabled", err)
	}
	if _, _, err := c.RecognizeWords(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeWords error = %v, want ErrOCRNotEnabled", err)
	}
	if err := c.SetLanguage("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguage error = %v, want ErrOCRNotEnabled", err)
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}
