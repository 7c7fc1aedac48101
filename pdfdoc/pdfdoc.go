// Package pdfdoc provides page-level access to PDF files: page counts
// and extraction of the embedded scan image for individual pages.
//
// Scanned ledger PDFs normally carry one full-page raster image per
// page; that embedded image is returned at its stored resolution.
package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoImage is returned when a page carries no embedded image to extract.
var ErrNoImage = errors.New("pdfdoc: page has no embedded image")

// Document is an open PDF with a known page count. Close releases any
// temporary file backing the document.
type Document struct {
	path  string
	pages int
	tmp   bool
	conf  *model.Configuration
}

// Open opens the PDF at path and reads its page count.
func Open(path string) (*Document, error) {
	conf := relaxedConfig()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages, err := api.PageCount(f, conf)
	if err != nil {
		return nil, fmt.Errorf("count pages in %s: %w", filepath.Base(path), err)
	}

	return &Document{path: path, pages: pages, conf: conf}, nil
}

// FromBytes writes data to a temporary file and opens it as a Document.
// The temporary file is removed on Close.
func FromBytes(data []byte) (*Document, error) {
	f, err := os.CreateTemp("", "ledgerocr-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp pdf: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	doc, err := Open(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	doc.tmp = true
	return doc, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pages
}

// Path returns the on-disk location of the document.
func (d *Document) Path() string {
	return d.path
}

// ExtractPageImage extracts the embedded image for the given 1-indexed
// page. When a page carries several images the largest is returned, on
// the assumption that it is the full-page scan.
func (d *Document) ExtractPageImage(page int) ([]byte, error) {
	if page < 1 || page > d.pages {
		return nil, fmt.Errorf("page %d out of range 1-%d", page, d.pages)
	}

	dir, err := os.MkdirTemp("", "ledgerocr-extract-")
	if err != nil {
		return nil, fmt.Errorf("create extract dir: %w", err)
	}
	defer os.RemoveAll(dir)

	sel := []string{strconv.Itoa(page)}
	if err := api.ExtractImagesFile(d.path, dir, sel, d.conf); err != nil {
		return nil, fmt.Errorf("extract images from page %d: %w", page, err)
	}

	path, err := largestFile(dir)
	if err != nil {
		return nil, fmt.Errorf("scan extract dir: %w", err)
	}
	if path == "" {
		return nil, fmt.Errorf("page %d: %w", page, ErrNoImage)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extracted image: %w", err)
	}
	return data, nil
}

// Close removes the temporary file backing a Document created with
// FromBytes. It is a no-op for documents opened from a caller-owned path.
func (d *Document) Close() error {
	if !d.tmp {
		return nil
	}
	d.tmp = false
	return os.Remove(d.path)
}

// largestFile returns the path of the biggest regular file in dir, or
// "" when dir holds no files.
func largestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	return best, nil
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
