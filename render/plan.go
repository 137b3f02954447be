// Package render is a debug rasterizer for an engraved.Score: it walks the
// positioned output tree and paints a schematic page image, intended for
// visual smoke-testing of the layout engine rather than publication-quality
// notation. Glyphs the engine only ever identifies by name (clefs, time
// signatures, flags) are drawn as simple geometric stand-ins since this
// package has no real music font to consult.
package render

import "scoreforge.dev/engraved"

// Plan is an iterator over the move/line commands of one rendering pass.
type Plan func(yield func(Command))

// Command is one pen instruction: a pen-up move to Coord, or a pen-down
// line to Coord from wherever the pen currently is.
type Command struct {
	Line  bool
	Coord engraved.Point
}

// Move lifts the pen and repositions it at p.
func Move(p engraved.Point) Command {
	return Command{Line: false, Coord: p}
}

// Line draws a straight segment from the current pen position to p.
func Line(p engraved.Point) Command {
	return Command{Line: true, Coord: p}
}

// Commands concatenates several plans into one.
func Commands(plans ...Plan) Plan {
	return func(yield func(Command)) {
		for _, p := range plans {
			if p != nil {
				p(yield)
			}
		}
	}
}

// rect yields the four sides of r as a closed outline.
func rect(r engraved.Rect) Plan {
	return func(yield func(Command)) {
		yield(Move(r.Min))
		yield(Line(engraved.Pt(r.Max.X, r.Min.Y)))
		yield(Line(r.Max))
		yield(Line(engraved.Pt(r.Min.X, r.Max.Y)))
		yield(Line(r.Min))
	}
}

// segment yields a single pen-up-then-line move between two points.
func segment(a, b engraved.Point) Plan {
	return func(yield func(Command)) {
		yield(Move(a))
		yield(Line(b))
	}
}

// polyline yields a pen-up move to the first point, then lines through the
// rest.
func polyline(points []engraved.Point) Plan {
	return func(yield func(Command)) {
		if len(points) == 0 {
			return
		}
		yield(Move(points[0]))
		for _, p := range points[1:] {
			yield(Line(p))
		}
	}
}

// diamond yields a small closed diamond outline centred at c, used as the
// schematic notehead glyph.
func diamond(c engraved.Point, radius float64) Plan {
	return polyline([]engraved.Point{
		engraved.Pt(c.X-radius, c.Y),
		engraved.Pt(c.X, c.Y-radius),
		engraved.Pt(c.X+radius, c.Y),
		engraved.Pt(c.X, c.Y+radius),
		engraved.Pt(c.X-radius, c.Y),
	})
}
