package ledgerocr

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ledgerocr/ledgerocr/format"
	"github.com/ledgerocr/ledgerocr/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// ============================================================================
// Construction and configuration
// ============================================================================

func TestOpenDefaults(t *testing.T) {
	ext := Open("ledger.pdf")

	if ext.format != format.PDF {
		t.Errorf("format = %v, want PDF", ext.format)
	}
	opts := ext.options
	if opts.language != "eng" || opts.textOnly || !opts.preprocess || opts.useCache {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.headerSkip != 4 || opts.footerSkip != 2 {
		t.Errorf("boundary skips = %d/%d, want 4/2", opts.headerSkip, opts.footerSkip)
	}
	if opts.pages != nil {
		t.Errorf("pages = %v, want nil (all pages)", opts.pages)
	}
}

func TestFromBytesDetectsFormat(t *testing.T) {
	ext := FromBytes(pngMagic, "scan-from-upload")
	if ext.format != format.PNG {
		t.Errorf("format = %v, want PNG", ext.format)
	}
}

func TestConfigMethodsReturnNewInstance(t *testing.T) {
	base := Open("ledger.pdf")
	modified := base.Pages(1, 2).TextOnly().Language("deu").NoPreprocess().Cache("/tmp/c")

	if base.options.pages != nil || base.options.textOnly || base.options.language != "eng" {
		t.Errorf("base extractor mutated: %+v", base.options)
	}
	if !base.options.preprocess || base.options.useCache {
		t.Errorf("base extractor mutated: %+v", base.options)
	}

	want := parseOptions{
		pages:      []int{1, 2},
		language:   "deu",
		textOnly:   true,
		preprocess: false,
		headerSkip: 4,
		footerSkip: 2,
		useCache:   true,
		cacheDir:   "/tmp/c",
	}
	if !reflect.DeepEqual(modified.options, want) {
		t.Errorf("modified options = %+v, want %+v", modified.options, want)
	}
}

func TestPagesCumulative(t *testing.T) {
	ext := Open("ledger.pdf").Pages(1, 2).Pages(5)
	if want := []int{1, 2, 5}; !reflect.DeepEqual(ext.options.pages, want) {
		t.Errorf("pages = %v, want %v", ext.options.pages, want)
	}
}

func TestPageRange(t *testing.T) {
	ext := Open("ledger.pdf").PageRange(3, 6)
	if want := []int{3, 4, 5, 6}; !reflect.DeepEqual(ext.options.pages, want) {
		t.Errorf("pages = %v, want %v", ext.options.pages, want)
	}
}

func TestBoundaryLineSetters(t *testing.T) {
	ext := Open("ledger.pdf").HeaderLines(6).FooterLines(0)
	if ext.options.headerSkip != 6 || ext.options.footerSkip != 0 {
		t.Errorf("skips = %d/%d, want 6/0", ext.options.headerSkip, ext.options.footerSkip)
	}
}

// ============================================================================
// Page resolution
// ============================================================================

func TestResolvePages(t *testing.T) {
	tests := []struct {
		name      string
		pages     []int
		pageCount int
		want      []int
		wantErr   bool
	}{
		{name: "all pages when unset", pages: nil, pageCount: 3, want: []int{0, 1, 2}},
		{name: "dedupe and sort", pages: []int{3, 1, 3, 2}, pageCount: 5, want: []int{0, 1, 2}},
		{name: "single page", pages: []int{2}, pageCount: 2, want: []int{1}},
		{name: "page zero rejected", pages: []int{0}, pageCount: 2, wantErr: true},
		{name: "past end rejected", pages: []int{3}, pageCount: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := Open("ledger.pdf")
			ext.options.pages = tt.pages

			got, err := ext.resolvePages(tt.pageCount)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePages: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolvePages = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Terminal operation plumbing
// ============================================================================

func TestParseFailFast(t *testing.T) {
	boom := errors.New("boom")
	ext := Open("ledger.pdf")
	ext.err = boom

	// The accumulated error survives chaining and short-circuits every
	// terminal operation.
	chained := ext.Pages(1).TextOnly()
	if _, _, err := chained.Parse(); !errors.Is(err, boom) {
		t.Errorf("Parse error = %v, want boom", err)
	}
	if _, _, err := chained.Text(); !errors.Is(err, boom) {
		t.Errorf("Text error = %v, want boom", err)
	}
	if _, err := chained.PageCount(); !errors.Is(err, boom) {
		t.Errorf("PageCount error = %v, want boom", err)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, _, err := Open("/nonexistent/dir/ledger.pdf").Parse()
	if err == nil || !strings.Contains(err.Error(), "read") {
		t.Errorf("error = %v, want read failure", err)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, _, err := FromBytes([]byte("just some text"), "notes.txt").Parse()
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("error = %v, want unsupported format", err)
	}
}

func TestParseNoInput(t *testing.T) {
	_, _, err := Open("").Parse()
	if err == nil || !strings.Contains(err.Error(), "no input") {
		t.Errorf("error = %v, want no input", err)
	}
}

func TestPageCountImage(t *testing.T) {
	count, err := FromBytes(pngMagic, "scan.png").PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if count != 1 {
		t.Errorf("PageCount = %d, want 1", count)
	}
}

func TestCacheVariantCoversOptions(t *testing.T) {
	base := Open("ledger.pdf")

	variants := map[string]*Extractor{
		"base":     base,
		"language": base.Language("deu"),
		"pages":    base.Pages(2),
		"textOnly": base.TextOnly(),
		"raw":      base.NoPreprocess(),
		"skips":    base.HeaderLines(1),
	}

	seen := make(map[string]string)
	for name, ext := range variants {
		v := ext.cacheVariant()
		if prev, dup := seen[v]; dup {
			t.Errorf("options %q and %q share cache variant %q", name, prev, v)
		}
		seen[v] = name
	}
}

// ============================================================================
// Helpers
// ============================================================================

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must did not panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustParse(t *testing.T) {
	doc := model.NewDocumentResult()
	if got := MustParse(doc, []Warning{{Code: "x"}}, nil); got != doc {
		t.Error("MustParse did not return the value")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on error")
		}
	}()
	MustParse(doc, nil, errors.New("boom"))
}

func TestMeanConfidence(t *testing.T) {
	words := []model.Word{
		{Text: "a", Confidence: 80},
		{Text: "b", Confidence: 40},
		{Text: "c", Confidence: model.ConfidenceNotOCRd},
	}

	mean, ok := meanConfidence(words)
	if !ok {
		t.Fatal("meanConfidence reported no data")
	}
	if mean != 60 {
		t.Errorf("mean = %v, want 60", mean)
	}

	if _, ok := meanConfidence(nil); ok {
		t.Error("meanConfidence reported data for no words")
	}
	if _, ok := meanConfidence([]model.Word{{Text: "x", Confidence: model.ConfidenceNotOCRd}}); ok {
		t.Error("meanConfidence reported data for not-OCR'd words")
	}
}
