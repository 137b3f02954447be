// Package hspacing turns the rhythmic content of one measure into column
// x-positions, using logarithmic duration spacing (spec.md §4.2): the
// spacing given to a duration grows with the log of its length rather
// than linearly, so a half note does not take twice the width of a
// quarter note, matching how engravers actually space music.
package hspacing

import "math"

// ElementKind is the kind of thing occupying a spacing column.
type ElementKind int

const (
	KindNote ElementKind = iota
	KindRest
	KindClef
	KindKeySignature
	KindTimeSignature
	KindBarline
)

// Element is one item contributing to a spacing column.
type Element struct {
	Position        int // rhythmic position in ticks, from the start of the measure
	Voice           int
	Staff           int
	Kind            ElementKind
	HasAccidental   bool
	DotCount        int
	AccidentalCount int
}

// Configuration carries every spacing tunable.
type Configuration struct {
	// QuarterNoteSpacing is the natural width, in points, given to one
	// quarter note's worth of rhythm at spacing_factor's neutral point.
	QuarterNoteSpacing float64
	// SpacingFactor scales the logarithmic term; spec.md's formula is
	// width = quarter_note_spacing * (1 + spacing_factor*log2(quarter_notes)).
	SpacingFactor float64
	MinimumNoteSpacing float64
	MeasureLeftPadding  float64
	MeasureRightPadding float64

	NoteheadWidth    float64
	AccidentalWidth  float64
	AccidentalGap    float64
	DotWidth         float64
	ClefWidth        float64
	KeySignatureWidth float64
	TimeSignatureWidth float64
	BarlineWidth     float64
	RestWidths       map[int]float64 // keyed by the rest element's DotCount; a rest whose DotCount has no entry uses NoteheadWidth
}

// DefaultConfiguration returns the spec's suggested defaults (the values
// implied by end-to-end scenario S1 in spec.md §8: 4 quarter notes at
// divisions=4 giving a natural width of 128pt with 4pt padding on each
// side and 30pt quarter-note spacing).
func DefaultConfiguration() Configuration {
	return Configuration{
		QuarterNoteSpacing:  30,
		SpacingFactor:       1,
		MinimumNoteSpacing:  10,
		MeasureLeftPadding:  4,
		MeasureRightPadding: 4,
		NoteheadWidth:       10,
		AccidentalWidth:     8,
		AccidentalGap:       2,
		DotWidth:            4,
		ClefWidth:           20,
		KeySignatureWidth:   12,
		TimeSignatureWidth:  16,
		BarlineWidth:        2,
	}
}

// Column is one rhythmic column: a set of elements sharing a rhythmic
// position, its computed minimum intrinsic width, and its laid-out X.
type Column struct {
	Position  int
	Elements  []Element
	MinWidth  float64
	X         float64
	// Width is the span from this column's X to the next column's X (or,
	// for the last column, to the measure's right edge); it's recorded
	// here so Justify can redistribute spans proportionally.
	Width float64
}

// Result is the output of Compute: laid-out columns plus the measure's
// total natural width.
type Result struct {
	Columns      []Column
	NaturalWidth float64
	config       Configuration
}

func (c Configuration) intrinsicWidth(e Element) float64 {
	switch e.Kind {
	case KindNote:
		w := c.NoteheadWidth
		if e.HasAccidental {
			n := e.AccidentalCount
			if n < 1 {
				n = 1
			}
			w += float64(n)*c.AccidentalWidth + c.AccidentalGap
		}
		w += float64(e.DotCount) * c.DotWidth
		return w
	case KindRest:
		if w, ok := c.RestWidths[e.DotCount]; ok {
			return w
		}
		return c.NoteheadWidth
	case KindClef:
		return c.ClefWidth
	case KindKeySignature:
		return c.KeySignatureWidth
	case KindTimeSignature:
		return c.TimeSignatureWidth
	case KindBarline:
		return c.BarlineWidth
	default:
		return c.NoteheadWidth
	}
}

// Compute buckets elements into columns by rhythmic position and lays
// them out left-to-right starting at config.MeasureLeftPadding, following
// spec.md §4.2's logarithmic duration-spacing algorithm.
//
// An empty element list yields an empty result whose NaturalWidth is just
// the left+right padding — there are no error conditions; this is a pure
// total function (spec.md §4.2 "Failure semantics").
func Compute(elements []Element, divisions int, measureDurationTicks int, config Configuration) Result {
	if divisions <= 0 {
		divisions = 1
	}
	buckets := map[int][]Element{}
	var positions []int
	for _, e := range elements {
		if _, ok := buckets[e.Position]; !ok {
			positions = append(positions, e.Position)
		}
		buckets[e.Position] = append(buckets[e.Position], e)
	}
	sortInts(positions)

	if len(positions) == 0 {
		return Result{
			NaturalWidth: config.MeasureLeftPadding + config.MeasureRightPadding,
			config:       config,
		}
	}

	columns := make([]Column, len(positions))
	for i, pos := range positions {
		els := buckets[pos]
		minWidth := 0.0
		for _, e := range els {
			if w := config.intrinsicWidth(e); w > minWidth {
				minWidth = w
			}
		}
		columns[i] = Column{Position: pos, Elements: els, MinWidth: minWidth}
	}

	x := config.MeasureLeftPadding
	for i := range columns {
		columns[i].X = x
		var nextPos int
		if i+1 < len(columns) {
			nextPos = columns[i+1].Position
		} else {
			nextPos = measureDurationTicks
			if nextPos <= columns[i].Position {
				nextPos = columns[i].Position + divisions
			}
		}
		quarterNotes := float64(nextPos-columns[i].Position) / float64(divisions)
		if quarterNotes < 1.0/16 {
			quarterNotes = 1.0 / 16
		}
		ideal := config.QuarterNoteSpacing * (1 + config.SpacingFactor*math.Log2(quarterNotes))
		width := math.Max(ideal, columns[i].MinWidth)
		width = math.Max(width, config.MinimumNoteSpacing)
		columns[i].Width = width
		x += width
	}
	natural := x + config.MeasureRightPadding

	return Result{Columns: columns, NaturalWidth: natural, config: config}
}

// sortInts sorts a small slice of ints in place with insertion sort;
// rhythmic positions per measure are few, so this avoids pulling in
// sort.Ints for a handful of elements (the sort is stable by construction
// since positions are already unique keys of the bucket map).
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

// Justify proportionally distributes (target - NaturalWidth) across the
// inter-column spans, weighted by span width, never shrinking a span
// below the configured minimums (spec.md §4.2 item 5). A single-column
// measure has nothing to distribute across and keeps its column at the
// left padding.
func (r Result) Justify(target float64) Result {
	if len(r.Columns) == 0 || target <= r.NaturalWidth {
		return r
	}
	extra := target - r.NaturalWidth
	totalWidth := 0.0
	for _, c := range r.Columns {
		totalWidth += c.Width
	}
	if totalWidth <= 0 {
		return r
	}
	out := Result{Columns: make([]Column, len(r.Columns)), NaturalWidth: target, config: r.config}
	x := r.config.MeasureLeftPadding
	for i, c := range r.Columns {
		stretch := extra * c.Width / totalWidth
		c.Width += stretch
		c.X = x
		x += c.Width
		out.Columns[i] = c
	}
	return out
}

// Interpolate returns the x-coordinate for an arbitrary rhythmic position
// within the measure, linearly interpolating between the two surrounding
// columns; positions outside the measure's column range extrapolate by
// returning the boundary column's X (spec.md §4.2).
func (r Result) Interpolate(position int) float64 {
	if len(r.Columns) == 0 {
		return r.config.MeasureLeftPadding
	}
	if position <= r.Columns[0].Position {
		return r.Columns[0].X
	}
	last := r.Columns[len(r.Columns)-1]
	if position >= last.Position {
		return last.X
	}
	for i := 0; i < len(r.Columns)-1; i++ {
		a, b := r.Columns[i], r.Columns[i+1]
		if position >= a.Position && position <= b.Position {
			if b.Position == a.Position {
				return a.X
			}
			t := float64(position-a.Position) / float64(b.Position-a.Position)
			return a.X + t*(b.X-a.X)
		}
	}
	return last.X
}
