package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ledgerocr/ledgerocr/model"
)

// ParseHOCR parses hOCR output (the XHTML layout format emitted by
// Tesseract and compatible engines) into positioned words.
//
// Structural indices are assigned by counting the enclosing hOCR elements:
// ocr_page, ocr_carea, ocr_par, and the line-level classes. Words without a
// parseable bounding box are dropped; a missing x_wconf leaves the word at
// confidence 0, which downstream filtering treats as untrusted.
//
// This file carries no build tag: hOCR parsing needs no OCR engine and is
// available in every build.
func ParseHOCR(r io.Reader) ([]model.Word, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	p := &hocrWalker{page: -1, block: -1, paragraph: -1, line: -1}
	p.walk(doc)
	return p.words, nil
}

type hocrWalker struct {
	words []model.Word

	page, block, paragraph, line int
}

func (p *hocrWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch attr(n, "class") {
		case "ocr_page":
			p.page++
			p.block, p.paragraph, p.line = -1, -1, -1
		case "ocr_carea":
			p.block++
			p.paragraph, p.line = -1, -1
		case "ocr_par":
			p.paragraph++
			p.line = -1
		case "ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat":
			p.line++
		case "ocrx_word":
			p.addWord(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *hocrWalker) addWord(n *html.Node) {
	bbox, conf, ok := parseTitle(attr(n, "title"))
	if !ok {
		return
	}
	p.words = append(p.words, model.Word{
		Text:           strings.TrimSpace(textContent(n)),
		BBox:           bbox,
		Confidence:     conf,
		PageIndex:      p.page,
		BlockIndex:     p.block,
		ParagraphIndex: p.paragraph,
		LineIndex:      p.line,
	})
}

// parseTitle extracts the bounding box and word confidence from an hOCR
// title attribute such as "bbox 36 92 96 116; x_wconf 93".
func parseTitle(title string) (model.BBox, float64, bool) {
	var bbox model.BBox
	haveBBox := false
	conf := 0.0

	for _, field := range strings.Split(title, ";") {
		parts := strings.Fields(field)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "bbox":
			if len(parts) != 5 {
				continue
			}
			var edges [4]float64
			valid := true
			for i, s := range parts[1:] {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					valid = false
					break
				}
				edges[i] = v
			}
			if valid {
				bbox = model.NewBBoxFromEdges(edges[0], edges[1], edges[2], edges[3])
				haveBBox = true
			}
		case "x_wconf":
			if len(parts) == 2 {
				if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
					conf = v
				}
			}
		}
	}

	return bbox, conf, haveBBox
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
