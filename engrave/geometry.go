package engrave

import (
	"scoreforge.dev/engraved"
	"scoreforge.dev/score"
)

// clefRef anchors a clef sign to the diatonic step/octave of the note
// that sits exactly on the staff's center line when the clef is drawn on
// its standard line.
type clefRef struct {
	refOctave, refStepRank, refStaffPos int
}

// clefReference implements spec.md §4.7 item 3's diatonic-offset
// formula's anchor: each clef sign has a known reference pitch on the
// center line at its standard staff line; a clef drawn on a different
// line shifts that reference by two staff positions per line of offset.
func clefReference(c score.Clef) clefRef {
	switch c.Sign {
	case score.ClefG:
		return shiftClefLine(clefRef{refOctave: 4, refStepRank: 6}, c.Line, 2) // treble: B4 on the center line
	case score.ClefF:
		return shiftClefLine(clefRef{refOctave: 3, refStepRank: 1}, c.Line, 4) // bass: D3 on the center line
	case score.ClefC:
		return shiftClefLine(clefRef{refOctave: 4, refStepRank: 0}, c.Line, 3) // alto: C4 on the center line
	default: // percussion, TAB: treat the center line as the reference
		return clefRef{refOctave: 4, refStepRank: 6}
	}
}

func shiftClefLine(base clefRef, line, standardLine int) clefRef {
	base.refStaffPos += (line - standardLine) * 2
	return base
}

// staffPosition implements spec.md §4.7 item 3's diatonic-offset
// formula: diatonic = (octave-ref_octave)*7 + step_rank - ref_step_rank;
// staff_pos = diatonic + ref_staff_pos. Rests always sit on the center
// line; unpitched notes use a fixed treble-like mapping on their display
// step/octave, per spec.
func staffPosition(n score.Note, clef score.Clef) int {
	switch n.Kind {
	case score.Rest:
		return 0
	case score.Unpitched:
		ref := clefReference(score.Clef{Sign: score.ClefG, Line: 2})
		diatonic := (n.DisplayOctave-ref.refOctave)*7 + n.DisplayStep - ref.refStepRank
		return diatonic + ref.refStaffPos
	default:
		ref := clefReference(clef)
		diatonic := (n.Octave-ref.refOctave)*7 + n.Step - ref.refStepRank
		return diatonic + ref.refStaffPos
	}
}

func noteheadGlyph(n score.Note) engraved.GlyphName {
	if n.Kind == score.Rest {
		switch n.VisualDuration {
		case score.DurationWhole:
			return engraved.GlyphRestWhole
		case score.DurationHalf:
			return engraved.GlyphRestHalf
		case score.Duration8th:
			return engraved.GlyphRest8th
		case score.Duration16th:
			return engraved.GlyphRest16th
		case score.Duration32nd:
			return engraved.GlyphRest32nd
		case score.Duration64th:
			return engraved.GlyphRest64th
		default:
			return engraved.GlyphRestQuarter
		}
	}
	switch n.NoteheadStyle {
	case score.NoteheadCross:
		return engraved.GlyphNoteheadX
	case score.NoteheadDiamond:
		return engraved.GlyphNoteheadDiamond
	case score.NoteheadSlash:
		return engraved.GlyphNoteheadSlash
	}
	switch n.VisualDuration {
	case score.DurationWhole:
		return engraved.GlyphNoteheadWhole
	case score.DurationHalf:
		return engraved.GlyphNoteheadHalf
	default:
		// Quarter and shorter durations all share the filled notehead,
		// and this is also spec.md §4.7's fallback for a note with no
		// recognised duration kind.
		return engraved.GlyphNoteheadBlack
	}
}

func accidentalGlyph(a score.AccidentalType) engraved.GlyphName {
	switch a {
	case score.AccidentalSharp:
		return engraved.GlyphAccidentalSharp
	case score.AccidentalFlat:
		return engraved.GlyphAccidentalFlat
	case score.AccidentalDoubleSharp:
		return engraved.GlyphAccidentalDoubleSharp
	case score.AccidentalDoubleFlat:
		return engraved.GlyphAccidentalDoubleFlat
	default:
		return engraved.GlyphAccidentalNatural
	}
}

func stemDirection(n score.Note, staffPos int) engraved.StemDir {
	switch n.StemDirection {
	case score.StemUp:
		return engraved.StemUp
	case score.StemDown:
		return engraved.StemDown
	default:
		if staffPos >= 0 {
			return engraved.StemDown
		}
		return engraved.StemUp
	}
}

// buildStem implements spec.md §4.7 item 3's stem rule: attachment at
// the right edge of the notehead for up-stems, the left edge for
// down-stems; default length 3.5 staff-spaces, extended so the far end
// reaches at least the center line when the default length stops short
// of it (a low up-stem or a high down-stem).
func buildStem(cfg Configuration, staffPos int, dir engraved.StemDir, noteY, noteX, noteheadWidth, halfSpace, staffSpace float64) *engraved.Stem {
	startX := noteX
	if dir == engraved.StemUp {
		startX = noteX + noteheadWidth
	}
	length := cfg.StemLengthSpaces * staffSpace
	endY := noteY + length
	if dir == engraved.StemUp {
		endY = noteY - length
	}
	centerLineY := noteY + float64(staffPos)*halfSpace
	if dir == engraved.StemUp && staffPos < 0 && endY > centerLineY {
		endY = centerLineY
	}
	if dir == engraved.StemDown && staffPos > 0 && endY < centerLineY {
		endY = centerLineY
	}
	return &engraved.Stem{
		Start:     engraved.Pt(startX, noteY),
		End:       engraved.Pt(startX, endY),
		Direction: dir,
		Thickness: cfg.StemThickness,
	}
}

func dynamicGlyph(d score.DynamicType) engraved.GlyphName {
	switch d {
	case score.DynamicPPP:
		return "dynamicPPP"
	case score.DynamicPP:
		return "dynamicPP"
	case score.DynamicP:
		return "dynamicPiano"
	case score.DynamicMP:
		return "dynamicMP"
	case score.DynamicMF:
		return "dynamicMF"
	case score.DynamicF:
		return "dynamicForte"
	case score.DynamicFF:
		return "dynamicFF"
	case score.DynamicFFF:
		return "dynamicFFF"
	default:
		return ""
	}
}

func engravedBarlineStyle(s score.BarlineStyle) engraved.BarlineStyleEngraved {
	switch s {
	case score.BarlineDouble:
		return engraved.BarlineStyleDouble
	case score.BarlineFinal:
		return engraved.BarlineStyleFinal
	case score.BarlineRepeatStart:
		return engraved.BarlineStyleRepeatStart
	case score.BarlineRepeatEnd:
		return engraved.BarlineStyleRepeatEnd
	default:
		return engraved.BarlineStyleRegular
	}
}

// keySignatureAccidentals places a key signature's accidental glyphs
// left to right at standard treble-clef staff positions, following the
// canonical sharp/flat order (spec.md §4.7 item 1). Key signatures on
// other clefs reuse these positions shifted by the clef's own offset
// from treble — a documented simplification (see DESIGN.md) rather than
// a fully independent per-clef position table.
func keySignatureAccidentals(key score.KeySignature, clef score.Clef, x, halfSpace float64) []engraved.EngravedAccidental {
	if key.Fifths == 0 {
		return nil
	}
	sharpPositions := []int{4, 1, 5, 2, -1, 3, 0}  // F# C# G# D# A# E# B#, treble staff positions
	flatPositions := []int{0, 3, -1, 2, -2, 1, -3}  // Bb Eb Ab Db Gb Cb Fb
	treble := clefReference(score.Clef{Sign: score.ClefG, Line: 2})
	thisClef := clefReference(clef)
	shift := ((thisClef.refStaffPos - thisClef.refStepRank) - (treble.refStaffPos - treble.refStepRank)) % 7
	if shift > 3 {
		shift -= 7
	} else if shift < -3 {
		shift += 7
	}

	n := key.Fifths
	glyph := engraved.GlyphAccidentalSharp
	positions := sharpPositions
	if n < 0 {
		glyph = engraved.GlyphAccidentalFlat
		positions = flatPositions
		n = -n
	}
	if n > len(positions) {
		n = len(positions)
	}
	out := make([]engraved.EngravedAccidental, n)
	for i := 0; i < n; i++ {
		pos := positions[i] + shift
		out[i] = engraved.EngravedAccidental{
			Glyph:    glyph,
			Position: engraved.Pt(x+float64(i)*8, -float64(pos)*halfSpace),
		}
	}
	return out
}

func emitStaffHead(out *engraved.Measure, staffIdx int, st StaffInput, isFirstInScore bool, halfSpace, staffSpace float64, cfg Configuration) {
	x := 0.0
	clefGlyph := clefGlyphName(st.Clef)
	clefY := st.CenterY - float64(st.Clef.Line-3)*2*halfSpace
	clefBounds := engraved.RectWH(engraved.Pt(x, clefY-cfg.ClefBandHeightSpaces*staffSpace/2), cfg.HSpacing.ClefWidth, cfg.ClefBandHeightSpaces*staffSpace)
	out.Elements = append(out.Elements, engraved.Element{
		Kind: engraved.ElemClef, Staff: staffIdx, Bounds: clefBounds,
		Clef: &engraved.Clef{Glyph: clefGlyph, Position: engraved.Pt(x, clefY), Bounds: clefBounds},
	})
	x += cfg.HSpacing.ClefWidth

	if st.Key.Fifths != 0 {
		accs := keySignatureAccidentals(st.Key, st.Clef, x, halfSpace)
		for i := range accs {
			accs[i].Position.Y += st.CenterY
		}
		keyBounds := engraved.RectWH(engraved.Pt(x, st.CenterY-staffSpace*2), cfg.HSpacing.KeySignatureWidth, staffSpace*4)
		out.Elements = append(out.Elements, engraved.Element{
			Kind: engraved.ElemKeySignature, Staff: staffIdx, Bounds: keyBounds,
			Key: &engraved.KeySignature{Accidentals: accs, Bounds: keyBounds},
		})
		x += cfg.HSpacing.KeySignatureWidth
	}

	if isFirstInScore && (st.Time.Symbol != score.TimeSymbolNone || len(st.Time.Beats) > 0) {
		ts := buildTimeSignature(st.Time, x, st.CenterY, staffSpace)
		out.Elements = append(out.Elements, engraved.Element{
			Kind: engraved.ElemTimeSignature, Staff: staffIdx, Bounds: ts.Bounds, Time: &ts,
		})
	}
}

func clefGlyphName(c score.Clef) engraved.GlyphName {
	switch c.Sign {
	case score.ClefG:
		return engraved.GlyphGClef
	case score.ClefF:
		return engraved.GlyphFClef
	case score.ClefC:
		return engraved.GlyphCClef
	case score.ClefPercussion:
		return engraved.GlyphUnpitchedClef
	default:
		return engraved.GlyphGClef
	}
}

// buildTimeSignature implements spec.md §4.7 item 1's time-signature
// emission: either the common/cut symbol, or stacked numerator and
// denominator digit glyphs centered in the time-sig band.
func buildTimeSignature(t score.TimeSignature, x, centerY, staffSpace float64) engraved.TimeSignature {
	bounds := engraved.RectWH(engraved.Pt(x, centerY-staffSpace*2), 16, staffSpace*4)
	if t.Symbol == score.TimeSymbolCommon || t.Symbol == score.TimeSymbolCut {
		symbol := engraved.GlyphTimeSigCommon
		if t.Symbol == score.TimeSymbolCut {
			symbol = engraved.GlyphTimeSigCut
		}
		return engraved.TimeSignature{Symbol: symbol, Bounds: bounds}
	}
	beats := 4
	if len(t.Beats) > 0 {
		beats = t.Beats[0]
	}
	beatType := t.BeatType
	if beatType == 0 {
		beatType = 4
	}
	num := digitGlyphs(beats, x, centerY-staffSpace)
	den := digitGlyphs(beatType, x, centerY+staffSpace)
	return engraved.TimeSignature{Numerator: num, Denominator: den, Bounds: bounds}
}

func digitGlyphs(value int, x, y float64) []engraved.EngravedGlyph {
	digits := digitsOf(value)
	out := make([]engraved.EngravedGlyph, len(digits))
	for i, d := range digits {
		out[i] = engraved.EngravedGlyph{
			Glyph:    engraved.TimeSigDigit(d),
			Position: engraved.Pt(x+float64(i)*8, y),
			Bounds:   engraved.RectWH(engraved.Pt(x+float64(i)*8, y-8), 8, 16),
		}
	}
	return out
}

func digitsOf(v int) []int {
	if v == 0 {
		return []int{0}
	}
	var digits []int
	for v > 0 {
		digits = append([]int{v % 10}, digits...)
		v /= 10
	}
	return digits
}
