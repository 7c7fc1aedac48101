package model

import "math"

// BBox represents a bounding box in page-pixel coordinates.
// The origin is the top-left corner of the page (hOCR convention):
// Y grows downward, so Top() < Bottom() for any valid box.
type BBox struct {
	X      float64 // Left edge
	Y      float64 // Top edge
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its top-left corner and dimensions.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromEdges creates a bounding box from its four edges.
func NewBBoxFromEdges(left, top, right, bottom float64) BBox {
	return BBox{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate.
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// CenterX returns the horizontal center.
func (b BBox) CenterX() float64 {
	return b.X + b.Width/2
}

// CenterY returns the vertical center.
func (b BBox) CenterY() float64 {
	return b.Y + b.Height/2
}

// Intersects checks if two bounding boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	left := math.Min(b.Left(), other.Left())
	top := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return NewBBoxFromEdges(left, top, right, bottom)
}

// Contains checks if a point falls inside the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.Left() && x <= b.Right() &&
		y >= b.Top() && y <= b.Bottom()
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
