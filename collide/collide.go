// Package collide provides bounding-box primitives and the specialised
// resolvers the Engraver uses to keep satellite elements (accidentals,
// stems, beams, articulations, dynamics, curves) clear of one another
// (spec.md §4.6). The basic rectangle operations (Intersects, Inflate,
// Overlap) live on engraved.Rect itself; this package builds the
// resolvers on top of them.
package collide

import (
	"scoreforge.dev/engraved"
)

// MinimumDisplacement returns the smallest-magnitude axis-aligned
// translation of a that would separate it from b, choosing the axis (X
// or Y) with the smaller required magnitude (spec.md §4.6 "minimum
// axis-aligned displacement"). The returned Point is zero if a and b do
// not overlap.
func MinimumDisplacement(a, b engraved.Rect) engraved.Point {
	ov := a.Overlap(b)
	if !ov.Valid() || ov.Empty() {
		return engraved.Point{}
	}
	aCenter := a.Min.Add(a.Size().Div(2))
	bCenter := b.Min.Add(b.Size().Div(2))
	sx := 1.0
	if aCenter.X < bCenter.X {
		sx = -1
	}
	sy := 1.0
	if aCenter.Y < bCenter.Y {
		sy = -1
	}
	dx := ov.Dx()
	dy := ov.Dy()
	if dx <= dy {
		return engraved.Point{X: sx * dx}
	}
	return engraved.Point{Y: sy * dy}
}

// AccidentalStack positions a column of accidentals to the left of a
// notehead, avoiding collisions among themselves (spec.md §4.6). widths
// are each accidental's horizontal extent, ordered high-to-low by staff
// position (callers must pre-sort); the result is each accidental's X
// offset relative to the notehead's left edge (negative, i.e. to the
// left of it).
func AccidentalStack(noteheadWidth float64, widths []float64, gap, accidentalGap, columnWidth float64) []float64 {
	offsets := make([]float64, len(widths))
	var placed []engraved.Rect
	limit := -10 * noteheadWidth
	for i, w := range widths {
		x := -noteheadWidth - gap - w
		for {
			cand := engraved.RectWH(engraved.Pt(x, 0), w, 1)
			collides := false
			for _, p := range placed {
				if cand.Inflate(accidentalGap).Intersects(p) {
					collides = true
					break
				}
			}
			if !collides || x <= limit {
				offsets[i] = x
				placed = append(placed, cand)
				break
			}
			x -= columnWidth
		}
	}
	return offsets
}

// StemExtension computes how much longer a stem rectangle must become,
// in its own direction, to clear every obstacle it overlaps (spec.md
// §4.6 "Stem extension"). up indicates the stem grows upward (toward
// smaller Y); the returned value is always >= 0.
func StemExtension(stem engraved.Rect, obstacles []engraved.Rect, up bool) float64 {
	max := 0.0
	for _, o := range obstacles {
		if !stem.Intersects(o) {
			continue
		}
		var needed float64
		if up {
			needed = stem.Min.Y - o.Min.Y
		} else {
			needed = o.Max.Y - stem.Max.Y
		}
		if needed > max {
			max = needed
		}
	}
	return max
}

// BeamShift computes the vertical shift needed to move a beam rectangle
// away from any colliding inner noteheads (spec.md §4.6 "Beam shift" —
// the same clearance computation as StemExtension, applied to the beam
// band instead of a single stem).
func BeamShift(beam engraved.Rect, obstacles []engraved.Rect, up bool) float64 {
	return StemExtension(beam, obstacles, up)
}

// ArticulationStack places a sequence of articulations above or below a
// note, stacking outward with a gap between each (spec.md §4.6
// "Articulation stack"). It returns each articulation's Y position
// (above: decreasing; below: increasing).
func ArticulationStack(startY float64, heights []float64, stackGap float64, above bool) []float64 {
	ys := make([]float64, len(heights))
	y := startY
	for i, h := range heights {
		if above {
			y -= h
			ys[i] = y
			y -= stackGap
		} else {
			ys[i] = y
			y += h + stackGap
		}
	}
	return ys
}

// DynamicPlacement finds a Y position for a dynamic mark, starting at
// preferredY and stepping by stepY (signed, toward the preferred side)
// until the candidate rectangle clears all obstacles or maxIterations
// is reached (spec.md §4.6 "Dynamic placement"). It returns the last
// tested position either way.
func DynamicPlacement(width, height, preferredY, stepY, x float64, obstacles []engraved.Rect, maxIterations int) float64 {
	y := preferredY
	for i := 0; i < maxIterations; i++ {
		y = preferredY + float64(i)*stepY
		cand := engraved.RectWH(engraved.Pt(x, y), width, height)
		clear := true
		for _, o := range obstacles {
			if cand.Intersects(o) {
				clear = false
				break
			}
		}
		if clear {
			return y
		}
	}
	return y
}

// QuadraticBezierPoint evaluates a quadratic Bézier curve with control
// points p0, p1, p2 at parameter t in [0,1].
func QuadraticBezierPoint(p0, p1, p2 engraved.Point, t float64) engraved.Point {
	mt := 1 - t
	return engraved.Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func pointIn(p engraved.Point, r engraved.Rect) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// CurveClearance samples a quadratic Bézier at sampleCount points; if
// any sample falls inside any obstacle, it returns the largest vertical
// adjustment needed to clear that obstacle, and true. If no sample
// collides it returns (0, false) (spec.md §4.6 "Curve clearance"). up
// indicates the curve should be pushed toward smaller Y to clear.
func CurveClearance(p0, p1, p2 engraved.Point, obstacles []engraved.Rect, sampleCount int, up bool) (float64, bool) {
	max := 0.0
	found := false
	if sampleCount < 2 {
		sampleCount = 2
	}
	for i := 0; i < sampleCount; i++ {
		t := float64(i) / float64(sampleCount-1)
		pt := QuadraticBezierPoint(p0, p1, p2, t)
		for _, o := range obstacles {
			if !pointIn(pt, o) {
				continue
			}
			found = true
			var adj float64
			if up {
				adj = pt.Y - o.Min.Y
			} else {
				adj = o.Max.Y - pt.Y
			}
			if adj > max {
				max = adj
			}
		}
	}
	return max, found
}
