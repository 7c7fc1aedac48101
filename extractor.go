package ledgerocr

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledgerocr/ledgerocr/cache"
	"github.com/ledgerocr/ledgerocr/format"
	"github.com/ledgerocr/ledgerocr/model"
	"github.com/ledgerocr/ledgerocr/ocr"
	"github.com/ledgerocr/ledgerocr/pdfdoc"
	"github.com/ledgerocr/ledgerocr/preprocess"
)

// ErrOCRUnavailable is returned by terminal operations that need OCR
// when the binary was built without it.
var ErrOCRUnavailable = errors.New("ledgerocr: OCR support not compiled in; rebuild with -tags ocr")

// lowConfidenceMean is the mean word confidence below which a page
// gets a low-confidence warning.
const lowConfidenceMean = 50.0

// pageImage holds the scan image for a single page.
type pageImage struct {
	number int    // 1-indexed page number
	data   []byte // encoded image bytes; nil when extraction failed
}

// Extractor provides a fluent interface for parsing scanned ledgers
// from PDFs and image files. Each configuration method returns a new
// Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source
	filename string
	content  []byte
	format   format.Format

	// Configuration
	options parseOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of
// options. This ensures immutability: each chain method returns a new
// instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		content:  e.content,
		format:   e.format,
		options:  e.options.clone(),
		err:      e.err,
		warnings: append([]Warning(nil), e.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to parse (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").Pages(1, 3, 5).Parse()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to parse (1-indexed, inclusive).
//
// Example:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").PageRange(5, 10).Parse()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Language sets the OCR language. Multiple languages can be specified
// as a "+" separated string (e.g. "eng+fra"). The default is "eng".
//
// Example:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").Language("eng+deu").Parse()
func (e *Extractor) Language(lang string) *Extractor {
	newExt := e.clone()
	newExt.options.language = lang
	return newExt
}

// TextOnly configures the extractor to parse the plain OCR text without
// word geometry. Body isolation then trims a fixed number of boundary
// lines instead of using coordinates. This is faster but less robust on
// skewed scans.
//
// Example:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").TextOnly().Parse()
func (e *Extractor) TextOnly() *Extractor {
	newExt := e.clone()
	newExt.options.textOnly = true
	return newExt
}

// NoPreprocess disables image cleanup (grayscale, upscale, binarize)
// before OCR. Useful when scans are already clean bitonal images.
//
// Example:
//
//	doc, _, err := ledgerocr.Open("clean.png").NoPreprocess().Parse()
func (e *Extractor) NoPreprocess() *Extractor {
	newExt := e.clone()
	newExt.options.preprocess = false
	return newExt
}

// HeaderLines sets how many leading lines are treated as the page
// header in text-only parsing. The default is 4.
func (e *Extractor) HeaderLines(n int) *Extractor {
	newExt := e.clone()
	newExt.options.headerSkip = n
	return newExt
}

// FooterLines sets how many trailing lines are treated as the page
// footer in text-only parsing. The default is 2.
func (e *Extractor) FooterLines(n int) *Extractor {
	newExt := e.clone()
	newExt.options.footerSkip = n
	return newExt
}

// Cache enables result caching in dir. An empty dir selects the
// default location under the user home directory. Cached results are
// keyed by document content and parse options, so a re-parse of the
// same bytes skips OCR entirely.
//
// Example:
//
//	doc, _, err := ledgerocr.Open("ledger.pdf").Cache("").Parse()
func (e *Extractor) Cache(dir string) *Extractor {
	newExt := e.clone()
	newExt.options.useCache = true
	newExt.options.cacheDir = dir
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Parse runs the full pipeline on the configured pages: scan image
// extraction, optional cleanup, OCR, and transaction parsing.
//
// Returns the parsed document, any warnings encountered during
// processing, and an error if parsing failed outright. Warnings
// indicate non-fatal issues (an unreadable page, low OCR confidence)
// where parsing continued but results may be incomplete.
//
// Example:
//
//	doc, warnings, err := ledgerocr.Open("ledger.pdf").Parse()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ledgerocr.FormatWarnings(warnings))
//	}
func (e *Extractor) Parse() (*model.DocumentResult, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.loadContent(); err != nil {
		return nil, nil, err
	}

	var store *cache.Cache
	var key string
	if e.options.useCache {
		c, err := cache.New(e.options.cacheDir)
		if err != nil {
			return nil, nil, err
		}
		store = c
		key = cache.Key(e.content, e.cacheVariant())

		var cached model.DocumentResult
		if hit, err := store.Get(key, &cached); err == nil && hit {
			return &cached, e.warnings, nil
		}
	}

	if !ocr.Enabled() {
		return nil, nil, ErrOCRUnavailable
	}

	images, err := e.collectPageImages()
	if err != nil {
		return nil, e.warnings, err
	}

	client, err := e.newOCRClient()
	if err != nil {
		return nil, e.warnings, err
	}
	defer client.Close()

	doc := model.NewDocumentResult()
	doc.Filename = e.filename

	for _, img := range images {
		doc.AddPage(e.parsePageImage(client, img))
	}

	if store != nil {
		if err := store.Put(key, doc); err != nil {
			e.warn(Warning{Code: WarnCacheWrite, Message: err.Error()})
		}
	}

	return doc, e.warnings, nil
}

// Text runs OCR on the configured pages and returns the recognized
// text with pages separated by blank lines, skipping transaction
// parsing entirely.
//
// Example:
//
//	text, warnings, err := ledgerocr.Open("ledger.pdf").Text()
func (e *Extractor) Text() (string, []Warning, error) {
	if e.err != nil {
		return "", nil, e.err
	}
	if err := e.loadContent(); err != nil {
		return "", nil, err
	}
	if !ocr.Enabled() {
		return "", nil, ErrOCRUnavailable
	}

	images, err := e.collectPageImages()
	if err != nil {
		return "", e.warnings, err
	}

	client, err := e.newOCRClient()
	if err != nil {
		return "", e.warnings, err
	}
	defer client.Close()

	var result strings.Builder
	for _, img := range images {
		if img.data == nil {
			continue
		}

		pageText, err := client.RecognizeImage(e.preparedImage(img))
		if err != nil {
			e.warn(pageWarning(WarnOCRFailed, img.number, "ocr failed: %v", err))
			continue
		}
		pageText = strings.TrimSpace(ocr.NormalizeText(pageText))

		if result.Len() > 0 && len(pageText) > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(pageText)
	}

	return result.String(), e.warnings, nil
}

// PageCount returns the number of pages in the document. It reads the
// file but runs no OCR.
//
// Example:
//
//	count, err := ledgerocr.Open("ledger.pdf").PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.loadContent(); err != nil {
		return 0, err
	}

	switch {
	case e.format == format.PDF:
		doc, err := pdfdoc.FromBytes(e.content)
		if err != nil {
			return 0, err
		}
		defer doc.Close()
		return doc.PageCount(), nil

	case e.format.IsImage():
		return 1, nil

	default:
		return 0, fmt.Errorf("unsupported file format: %s", e.format)
	}
}

// ============================================================================
// Pipeline
// ============================================================================

// loadContent reads the source file if needed and pins down the format
// from the content's magic bytes, falling back to the filename
// extension.
func (e *Extractor) loadContent() error {
	if e.content == nil {
		if e.filename == "" {
			return fmt.Errorf("no input specified")
		}
		data, err := os.ReadFile(e.filename)
		if err != nil {
			return fmt.Errorf("read %s: %w", e.filename, err)
		}
		e.content = data
	}

	if f := format.DetectFromMagic(e.content); f != format.Unknown {
		e.format = f
	}
	if e.format == format.Unknown {
		return fmt.Errorf("unsupported file format: %s", e.format)
	}
	return nil
}

// collectPageImages gathers the scan image for every selected page.
// Pages whose image cannot be extracted produce a warning and a
// pageImage with nil data, keeping page order intact.
func (e *Extractor) collectPageImages() ([]pageImage, error) {
	switch {
	case e.format == format.PDF:
		doc, err := pdfdoc.FromBytes(e.content)
		if err != nil {
			return nil, err
		}
		defer doc.Close()

		indices, err := e.resolvePages(doc.PageCount())
		if err != nil {
			return nil, err
		}

		images := make([]pageImage, 0, len(indices))
		for _, idx := range indices {
			pageNum := idx + 1
			data, err := doc.ExtractPageImage(pageNum)
			if err != nil {
				e.warn(pageWarning(WarnPageImage, pageNum, "no scan image: %v", err))
				images = append(images, pageImage{number: pageNum})
				continue
			}
			images = append(images, pageImage{number: pageNum, data: data})
		}
		return images, nil

	case e.format.IsImage():
		if _, err := e.resolvePages(1); err != nil {
			return nil, err
		}
		return []pageImage{{number: 1, data: e.content}}, nil

	default:
		return nil, fmt.Errorf("unsupported file format: %s", e.format)
	}
}

// newOCRClient starts a recognition client configured for ledger pages:
// single uniform block segmentation plus the requested language.
func (e *Extractor) newOCRClient() (*ocr.Client, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, fmt.Errorf("start OCR: %w", err)
	}
	if err := client.SetPageSegMode(ocr.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR segmentation mode: %w", err)
	}
	if e.options.language != "" {
		if err := client.SetLanguage(e.options.language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set OCR language: %w", err)
		}
	}
	return client, nil
}

// parsePageImage runs cleanup, OCR, and transaction parsing for one
// page, accumulating warnings along the way.
func (e *Extractor) parsePageImage(client *ocr.Client, img pageImage) model.PageResult {
	if img.data == nil {
		return model.PageResult{Transactions: []model.TransactionRecord{}}
	}

	data := e.preparedImage(img)

	var text string
	var words []model.Word
	var err error
	if e.options.textOnly {
		text, err = client.RecognizeImage(data)
	} else {
		text, words, err = client.RecognizeWords(data)
	}
	if err != nil {
		e.warn(pageWarning(WarnOCRFailed, img.number, "ocr failed: %v", err))
		return model.PageResult{Transactions: []model.TransactionRecord{}}
	}

	text = ocr.NormalizeText(text)
	if strings.TrimSpace(text) == "" {
		e.warn(pageWarning(WarnEmptyPage, img.number, "no text recognized"))
		return model.PageResult{Transactions: []model.TransactionRecord{}}
	}

	if mean, ok := meanConfidence(words); ok && mean < lowConfidenceMean {
		e.warn(pageWarning(WarnLowConfidence, img.number, "mean word confidence %.1f", mean))
	}

	result := parsePage(text, words, e.options.headerSkip, e.options.footerSkip)
	if len(result.Transactions) == 0 {
		e.warn(pageWarning(WarnNoTransactions, img.number, "no transaction rows found"))
	}
	return result
}

// preparedImage returns the page image with cleanup applied when
// enabled. Cleanup failures fall back to the original bytes with a
// warning.
func (e *Extractor) preparedImage(img pageImage) []byte {
	if !e.options.preprocess {
		return img.data
	}
	cleaned, err := preprocess.Process(img.data)
	if err != nil {
		e.warn(pageWarning(WarnPreprocess, img.number, "image cleanup failed: %v", err))
		return img.data
	}
	return cleaned
}

// resolvePages converts the configured 1-indexed page selection into
// sorted, deduplicated 0-indexed pages, validating against pageCount.
func (e *Extractor) resolvePages(pageCount int) ([]int, error) {
	// If no pages specified, use all pages
	if len(e.options.pages) == 0 {
		pageIndices := make([]int, pageCount)
		for i := 0; i < pageCount; i++ {
			pageIndices[i] = i
		}
		return pageIndices, nil
	}

	// Convert 1-indexed to 0-indexed, dedupe, and validate
	seen := make(map[int]bool)
	var pageIndices []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			pageIndices = append(pageIndices, zeroIndexed)
		}
	}

	sort.Ints(pageIndices)
	return pageIndices, nil
}

// cacheVariant encodes every option that changes parse output, so
// different configurations never share a cache entry.
func (e *Extractor) cacheVariant() string {
	return fmt.Sprintf("parse|lang=%s|pages=%v|text=%t|pre=%t|h=%d|f=%d",
		e.options.language, e.options.pages, e.options.textOnly,
		e.options.preprocess, e.options.headerSkip, e.options.footerSkip)
}

func (e *Extractor) warn(w Warning) {
	e.warnings = append(e.warnings, w)
}

// meanConfidence averages word confidences, skipping words that never
// went through OCR. ok is false when no word carries a confidence.
func meanConfidence(words []model.Word) (float64, bool) {
	var sum float64
	var n int
	for _, w := range words {
		if w.Confidence == model.ConfidenceNotOCRd {
			continue
		}
		sum += w.Confidence
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
