package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"scoreforge.dev/engraved"
)

// Configuration controls the debug rasterizer's visual parameters. Every
// width is in the same points space as the engraved tree; Scale converts
// that space to device pixels.
type Configuration struct {
	Scale          float64
	StaffLineWidth float64
	StemWidth      float64
	BarlineWidth   float64
	NoteheadRadius float64
	Background     color.Color
	Foreground     color.Color
}

// DefaultConfiguration renders at one device pixel per point, with hairline
// stroke widths scaled to a typical staff space.
func DefaultConfiguration() Configuration {
	return Configuration{
		Scale:          1,
		StaffLineWidth: 0.8,
		StemWidth:      0.9,
		BarlineWidth:   1.2,
		NoteheadRadius: 3.2,
		Background:     color.White,
		Foreground:     color.Black,
	}
}

// RenderScore rasterizes every page of sc, in order.
func RenderScore(sc *engraved.Score, cfg Configuration) []*image.RGBA {
	imgs := make([]*image.RGBA, len(sc.Pages))
	for i, page := range sc.Pages {
		imgs[i] = RenderPage(page, cfg)
	}
	return imgs
}

// RenderPage rasterizes one page to an RGBA image sized to the page frame
// scaled by cfg.Scale.
func RenderPage(page engraved.Page, cfg Configuration) *image.RGBA {
	w := int(page.Frame.Dx()*cfg.Scale + 0.5)
	h := int(page.Frame.Dy()*cfg.Scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: cfg.Background}, image.Point{}, draw.Src)

	dr := img.Bounds()
	scale := float32(cfg.Scale)

	drawStroke := func(p Plan, width float64) {
		if p == nil {
			return
		}
		r := NewRasterizer(img, dr, scale, float32(width)*scale, cfg.Foreground)
		r.Run(p)
	}

	var directions []engraved.Credit
	for _, system := range page.Systems {
		for _, staff := range system.Staves {
			drawStroke(staffLines(staff), cfg.StaffLineWidth)
		}
		for _, g := range system.Groupings {
			drawStroke(grouping(g), g.Thickness)
		}
		for _, bl := range system.Barlines {
			drawStroke(systemBarline(bl), cfg.BarlineWidth)
		}
		for _, m := range system.Measures {
			for _, el := range m.Elements {
				if el.Kind == engraved.ElemDirection && el.Direction != nil {
					directions = append(directions, engraved.Credit{
						Text: el.Direction.Text, Position: el.Direction.Position,
					})
					continue
				}
				drawStroke(element(el, cfg), strokeWidthFor(el, cfg))
			}
			for _, bg := range m.BeamGroups {
				drawStroke(beamGroup(bg), bg.Thickness)
			}
		}
	}

	drawText(img, page.Credits, cfg)
	drawText(img, directions, cfg)
	return img
}

func strokeWidthFor(el engraved.Element, cfg Configuration) float64 {
	switch el.Kind {
	case engraved.ElemBarline:
		return cfg.BarlineWidth
	case engraved.ElemNote, engraved.ElemRest:
		return cfg.StemWidth
	default:
		return cfg.StaffLineWidth
	}
}

// staffLines yields the five (or LineCount) horizontal rules of a staff,
// evenly spaced across its frame.
func staffLines(s engraved.Staff) Plan {
	return func(yield func(Command)) {
		lines := s.LineCount
		if lines < 1 {
			return
		}
		spaces := s.HeightStaffSpaces
		if spaces <= 0 {
			spaces = float64(lines - 1)
		}
		step := s.Frame.Dy() / spaces
		x0, x1 := s.Frame.Min.X, s.Frame.Min.X+s.Frame.Dx()
		for i := 0; i < lines; i++ {
			y := s.Frame.Min.Y + float64(i)*step
			segment(engraved.Pt(x0, y), engraved.Pt(x1, y))(yield)
		}
	}
}

// grouping draws the vertical brace/bracket line at a system's left edge.
func grouping(g engraved.StaffGrouping) Plan {
	return segment(engraved.Pt(g.XOffset, g.TopY), engraved.Pt(g.XOffset, g.BottomY))
}

// systemBarline draws a single connected barline; double/final styles get
// a second, slightly offset line.
func systemBarline(b engraved.SystemBarline) Plan {
	main := segment(engraved.Pt(b.X, b.TopY), engraved.Pt(b.X, b.BottomY))
	switch b.Style {
	case engraved.BarlineStyleDouble, engraved.BarlineStyleFinal, engraved.BarlineStyleRepeatStart, engraved.BarlineStyleRepeatEnd:
		const gap = 2.5
		second := segment(engraved.Pt(b.X+gap, b.TopY), engraved.Pt(b.X+gap, b.BottomY))
		return Commands(main, second)
	default:
		return main
	}
}

// beamGroup draws the primary beam as a single stroked line; secondary
// beam hooks, when present, are drawn as short parallel segments.
func beamGroup(bg engraved.BeamGroup) Plan {
	plans := []Plan{segment(bg.Start, bg.End)}
	for _, sb := range bg.SecondaryBeams {
		plans = append(plans, segment(sb.Start, sb.End))
	}
	return Commands(plans...)
}

// element dispatches one engraved element to its schematic drawing.
func element(el engraved.Element, cfg Configuration) Plan {
	switch el.Kind {
	case engraved.ElemNote:
		return note(el.Note, cfg)
	case engraved.ElemRest:
		return rest(el.Note, cfg)
	case engraved.ElemClef:
		return clef(el.Clef)
	case engraved.ElemKeySignature:
		return keySignature(el.Key)
	case engraved.ElemTimeSignature:
		return timeSignature(el.Time)
	case engraved.ElemDirection:
		return nil // text credits/directions are drawn separately, see drawText
	case engraved.ElemTupletBracket:
		return tupletBracket(el.Tuplet)
	default:
		return nil
	}
}

func note(n *engraved.Note, cfg Configuration) Plan {
	if n == nil {
		return nil
	}
	plans := []Plan{diamond(n.Position, cfg.NoteheadRadius)}
	if n.Accidental != nil {
		plans = append(plans, accidentalMark(n.Accidental.Position))
	}
	for _, d := range n.Dots {
		plans = append(plans, diamond(d, cfg.NoteheadRadius*0.25))
	}
	if n.Stem != nil {
		plans = append(plans, segment(n.Stem.Start, n.Stem.End))
	}
	if n.Flag != nil {
		dir := 1.0
		if n.Stem != nil && n.Stem.Direction == engraved.StemDown {
			dir = -1
		}
		end := n.Flag.Position
		hook := engraved.Pt(end.X+cfg.NoteheadRadius, end.Y+dir*cfg.NoteheadRadius*1.5)
		plans = append(plans, segment(end, hook))
	}
	return Commands(plans...)
}

func rest(n *engraved.Note, cfg Configuration) Plan {
	if n == nil {
		return nil
	}
	half := cfg.NoteheadRadius
	r := engraved.RectWH(engraved.Pt(n.Position.X-half, n.Position.Y-half*0.6), half*2, half*1.2)
	return rect(r)
}

func clef(c *engraved.Clef) Plan {
	if c == nil {
		return nil
	}
	return rect(c.Bounds)
}

func keySignature(k *engraved.KeySignature) Plan {
	if k == nil {
		return nil
	}
	plans := make([]Plan, 0, len(k.Accidentals))
	for _, a := range k.Accidentals {
		plans = append(plans, accidentalMark(a.Position))
	}
	return Commands(plans...)
}

func accidentalMark(p engraved.Point) Plan {
	const h = 4.0
	return segment(engraved.Pt(p.X, p.Y-h), engraved.Pt(p.X, p.Y+h))
}

func timeSignature(ts *engraved.TimeSignature) Plan {
	if ts == nil {
		return nil
	}
	var plans []Plan
	for _, g := range ts.Numerator {
		plans = append(plans, rect(g.Bounds))
	}
	for _, g := range ts.Denominator {
		plans = append(plans, rect(g.Bounds))
	}
	if len(plans) == 0 {
		plans = append(plans, rect(ts.Bounds))
	}
	return Commands(plans...)
}

func tupletBracket(tb *engraved.TupletBracket) Plan {
	if tb == nil {
		return nil
	}
	const legDrop = 4.0
	return Commands(
		segment(engraved.Pt(tb.Start.X, tb.Start.Y+legDrop), tb.Start),
		segment(tb.Start, tb.End),
		segment(tb.End, engraved.Pt(tb.End.X, tb.End.Y+legDrop)),
	)
}

// drawText renders page credits and in-measure directions with a fixed
// bitmap face, since this core never links against a real outline font
// (it only ever queries glyph advances by name).
func drawText(img draw.Image, credits []engraved.Credit, cfg Configuration) {
	face := basicfont.Face7x13
	col := image.NewUniform(cfg.Foreground)
	for _, c := range credits {
		d := &font.Drawer{
			Dst:  img,
			Src:  col,
			Face: face,
			Dot:  fixed.P(int(c.Position.X*cfg.Scale), int(c.Position.Y*cfg.Scale)),
		}
		d.DrawString(c.Text)
	}
}
