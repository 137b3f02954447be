package layout

import (
	"scoreforge.dev/collide"
	"scoreforge.dev/engraved"
)

// directionCharWidth and directionLineHeight approximate a direction/
// dynamic text box's footprint: this core has no bundled font to measure
// real glyph advances against (see the engraved and render packages), so
// collision resolution works off a fixed per-character estimate instead.
const (
	directionCharWidth  = 5.0
	directionLineHeight = 10.0
	directionStepY      = -3.0
	directionMaxSteps   = 12
)

// resolveDirectionCollisions nudges each ElemDirection in m away from the
// notes, rests, and other notation it would otherwise overlap, per
// spec.md §4.6's "Dynamic placement": collect every other element's
// Bounds in the measure as an obstacle, then walk the direction upward
// in fixed steps until it clears them all or the iteration budget runs
// out.
func resolveDirectionCollisions(m *engraved.Measure) {
	var obstacles []engraved.Rect
	var directions []int
	for i, el := range m.Elements {
		if el.Kind == engraved.ElemDirection {
			directions = append(directions, i)
			continue
		}
		if el.Bounds.Valid() {
			obstacles = append(obstacles, el.Bounds)
		}
	}
	if len(directions) == 0 || len(obstacles) == 0 {
		return
	}

	for _, i := range directions {
		el := &m.Elements[i]
		d := el.Direction
		if d == nil {
			continue
		}
		width := float64(len(d.Text)) * directionCharWidth
		height := directionLineHeight
		x := d.Position.X
		y := collide.DynamicPlacement(width, height, d.Position.Y, directionStepY, x, obstacles, directionMaxSteps)
		d.Position.Y = y
		el.Bounds = engraved.RectWH(engraved.Pt(x, y-height), width, height)
	}
}
