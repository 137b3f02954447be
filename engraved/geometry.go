// Package engraved holds the core-owned output of the layout engine: the
// fully positioned, absolute-page-coordinate geometric description of a
// score, ready for a purely mechanical renderer.
//
// Geometry here uses float64 points rather than the fixed-point or
// integer-pixel coordinates common to CNC/engraving-machine code, since
// typographic layout is a continuous problem: columns are justified by
// fractional ratios and beam slopes are real-valued.
package engraved

import "math"

// Point is a location or vector in typographic points. Y grows downward.
type Point struct {
	X, Y float64
}

// Pt is a convenience constructor, mirroring the image.Pt idiom.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

func (p Point) Div(s float64) Point {
	return Point{p.X / s, p.Y / s}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Finite reports whether both coordinates are finite (not NaN or ±Inf),
// the minimum sanity bar invariant 1 in the spec requires of every
// produced position.
func (p Point) Finite() bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// Rect is an axis-aligned bounding rectangle, Min inclusive and Max
// exclusive on neither axis (both corners are literal coordinates, not a
// half-open range) — positions are always reported relative to the
// rectangle's immediate parent container.
type Rect struct {
	Min, Max Point
}

// RectWH builds a Rect from an origin and a size.
func RectWH(origin Point, w, h float64) Rect {
	return Rect{Min: origin, Max: Point{origin.X + w, origin.Y + h}}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Size() Point {
	return Point{r.Dx(), r.Dy()}
}

func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Valid reports whether the rectangle has non-negative width and height,
// invariant 1 in the spec.
func (r Rect) Valid() bool {
	return r.Dx() >= 0 && r.Dy() >= 0 && r.Min.Finite() && r.Max.Finite()
}

// Shrink insets the rectangle by the given margins, clamping so the
// result never inverts (mirrors the teacher's gui/layout.Rectangle.Shrink,
// generalized from int pixels to float64 points).
func (r Rect) Shrink(top, end, bottom, start float64) Rect {
	r2 := Rect{
		Min: Point{r.Min.X + start, r.Min.Y + top},
		Max: Point{r.Max.X - end, r.Max.Y - bottom},
	}
	if r2.Min.X > r.Max.X {
		r2.Min.X = r.Max.X
	}
	if r2.Max.X < r2.Min.X {
		r2.Max.X = r2.Min.X
	}
	if r2.Min.Y > r.Max.Y {
		r2.Min.Y = r.Max.Y
	}
	if r2.Max.Y < r2.Min.Y {
		r2.Max.Y = r2.Min.Y
	}
	return r2
}

// Center returns the top-left origin that would center a box of size sz
// within r.
func (r Rect) Center(sz Point) Point {
	off := r.Size().Sub(sz).Div(2)
	return r.Min.Add(off)
}

// CutTop splits r into a top strip of the given height and the remainder,
// clamped to r's bounds (mirrors gui/layout.Rectangle.CutTop).
func (r Rect) CutTop(height float64) (top, bottom Rect) {
	cuty := math.Min(r.Min.Y+height, r.Max.Y)
	return r.cutY(cuty)
}

// CutBottom splits r into the remainder and a bottom strip of the given
// height.
func (r Rect) CutBottom(height float64) (top, bottom Rect) {
	cuty := math.Max(r.Max.Y-height, r.Min.Y)
	return r.cutY(cuty)
}

func (r Rect) cutY(cuty float64) (top, bottom Rect) {
	top = Rect{Min: r.Min, Max: Point{r.Max.X, cuty}}
	bottom = Rect{Min: Point{r.Min.X, cuty}, Max: r.Max}
	return top, bottom
}

// CutStart splits r into a leading strip of the given width and the
// remainder.
func (r Rect) CutStart(width float64) (start, end Rect) {
	cutx := math.Min(r.Min.X+width, r.Max.X)
	return r.cutX(cutx)
}

func (r Rect) cutX(cutx float64) (start, end Rect) {
	start = Rect{Min: r.Min, Max: Point{cutx, r.Max.Y}}
	end = Rect{Min: Point{cutx, r.Min.Y}, Max: r.Max}
	return start, end
}

// Intersects reports whether r and o overlap (closed intervals on both
// axes, so touching edges count as overlapping — callers that need strict
// overlap should inflate by a negative pad via Inflate).
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Inflate grows (or, with a negative pad, shrinks) r symmetrically by pad
// on every side.
func (r Rect) Inflate(pad float64) Rect {
	return Rect{
		Min: Point{r.Min.X - pad, r.Min.Y - pad},
		Max: Point{r.Max.X + pad, r.Max.Y + pad},
	}
}

// Overlap returns the intersection rectangle of r and o. If they do not
// intersect the result is empty (Valid() may be false).
func (r Rect) Overlap(o Rect) Rect {
	return Rect{
		Min: Point{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Point{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Offset translates r by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}
