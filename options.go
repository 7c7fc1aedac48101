package ledgerocr

import (
	"github.com/ledgerocr/ledgerocr/layout"
)

// parseOptions holds configuration for ledger parsing.
type parseOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// OCR options
	language string
	textOnly bool

	// Image cleanup before OCR
	preprocess bool

	// Boundary isolation for pages without word geometry
	headerSkip int
	footerSkip int

	// Result caching
	useCache bool
	cacheDir string
}

// defaultOptions returns the default parse options.
func defaultOptions() parseOptions {
	return parseOptions{
		pages:      nil, // nil means all pages
		language:   "eng",
		textOnly:   false,
		preprocess: true,
		headerSkip: layout.DefaultHeaderSkip,
		footerSkip: layout.DefaultFooterSkip,
		useCache:   false,
	}
}

// clone creates a deep copy of parseOptions.
func (o parseOptions) clone() parseOptions {
	newOpts := parseOptions{
		language:   o.language,
		textOnly:   o.textOnly,
		preprocess: o.preprocess,
		headerSkip: o.headerSkip,
		footerSkip: o.footerSkip,
		useCache:   o.useCache,
		cacheDir:   o.cacheDir,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
