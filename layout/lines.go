package layout

import (
	"sort"

	"github.com/ledgerocr/ledgerocr/model"
)

// ReconstructorConfig holds configuration for line reconstruction from
// positioned words.
type ReconstructorConfig struct {
	// MinConfidence is the recognition confidence a word must exceed to
	// participate in reconstruction (default: 10). The comparison is
	// strict, so words at exactly this value are dropped.
	MinConfidence float64

	// HeaderZone is the fraction of the content band, measured from its
	// top edge, treated as page header (default: 0.15). Words starting
	// inside it are dropped.
	HeaderZone float64

	// FooterZone is the fraction of the content band at which the page
	// footer begins (default: 0.85). Words ending below it are dropped.
	FooterZone float64
}

// DefaultReconstructorConfig returns sensible default configuration.
func DefaultReconstructorConfig() ReconstructorConfig {
	return ReconstructorConfig{
		MinConfidence: 10,
		HeaderZone:    0.15,
		FooterZone:    0.85,
	}
}

// Reconstructor rebuilds reading-order text lines from positioned words.
// It is safe for concurrent use.
type Reconstructor struct {
	cfg ReconstructorConfig
}

// NewReconstructor creates a Reconstructor with default configuration.
func NewReconstructor() *Reconstructor {
	return NewReconstructorWithConfig(DefaultReconstructorConfig())
}

// NewReconstructorWithConfig creates a Reconstructor with the given
// configuration.
func NewReconstructorWithConfig(cfg ReconstructorConfig) *Reconstructor {
	return &Reconstructor{cfg: cfg}
}

// lineKey identifies the structural line a word belongs to. Words sharing a
// key were recognized as one visual line.
type lineKey struct {
	page, block, paragraph, line int
}

func wordKey(w model.Word) lineKey {
	return lineKey{w.PageIndex, w.BlockIndex, w.ParagraphIndex, w.LineIndex}
}

// ReconstructLines filters the words and reassembles them into text lines.
//
// Words with confidence at or below the threshold, blank words, and words
// lying in the header or footer zone of the content band are discarded.
// The remainder are ordered by page, block, paragraph, and line index with
// horizontal position breaking ties, then grouped by structural line and
// joined with single spaces. Returns nil when nothing survives filtering.
func (r *Reconstructor) ReconstructLines(words []model.Word) []string {
	filtered := make([]model.Word, 0, len(words))
	for _, w := range words {
		if w.Confidence > r.cfg.MinConfidence && !w.IsBlank() {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	minTop := filtered[0].BBox.Top()
	maxBottom := filtered[0].BBox.Bottom()
	for _, w := range filtered[1:] {
		if w.BBox.Top() < minTop {
			minTop = w.BBox.Top()
		}
		if w.BBox.Bottom() > maxBottom {
			maxBottom = w.BBox.Bottom()
		}
	}
	contentHeight := maxBottom - minTop

	// A degenerate band means the geometry carries no vertical information,
	// so zone trimming is skipped rather than discarding everything.
	body := filtered
	if contentHeight > 0 {
		headerZoneEnd := minTop + r.cfg.HeaderZone*contentHeight
		footerZoneStart := minTop + r.cfg.FooterZone*contentHeight
		body = make([]model.Word, 0, len(filtered))
		for _, w := range filtered {
			if w.BBox.Top() >= headerZoneEnd && w.BBox.Bottom() <= footerZoneStart {
				body = append(body, w)
			}
		}
	}
	if len(body) == 0 {
		return nil
	}

	sort.SliceStable(body, func(i, j int) bool {
		a, b := body[i], body[j]
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		if a.BlockIndex != b.BlockIndex {
			return a.BlockIndex < b.BlockIndex
		}
		if a.ParagraphIndex != b.ParagraphIndex {
			return a.ParagraphIndex < b.ParagraphIndex
		}
		if a.LineIndex != b.LineIndex {
			return a.LineIndex < b.LineIndex
		}
		return a.BBox.X < b.BBox.X
	})

	var grouped []model.Line
	current := wordKey(body[0])
	var run []model.Word
	for _, w := range body {
		if k := wordKey(w); k != current {
			grouped = append(grouped, model.Line{Words: run})
			run = nil
			current = k
		}
		run = append(run, w)
	}
	grouped = append(grouped, model.Line{Words: run})

	lines := make([]string, len(grouped))
	for i, l := range grouped {
		lines[i] = l.Text()
	}
	return lines
}
