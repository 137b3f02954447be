// Package engrave turns one measure of one part's source element stream
// into positioned engraved.Element geometry: noteheads, stems, flags,
// beams, staff-head glyphs and barlines (spec.md §4.7). It is invoked
// once per (system, part, measure) by the Director.
package engrave

import (
	"scoreforge.dev/engraved"
	"scoreforge.dev/hspacing"
	"scoreforge.dev/score"
	"scoreforge.dev/units"
)

// GlyphMetrics resolves a glyph's horizontal advance, mirroring the
// teacher's narrow font.Face.Decode/Metrics query shape: the engraver
// never reaches past this interface into font internals.
type GlyphMetrics interface {
	Advance(name engraved.GlyphName) (units.StaffSpaces, bool)
}

// Configuration carries every Engraver tunable.
type Configuration struct {
	HSpacing hspacing.Configuration

	NoteheadWidthFactor  float64 // notehead_width = factor * staff_space
	StemLengthSpaces     float64
	StemThickness        float64
	BeamThicknessFactor  float64 // beam_thickness = factor * staff_space
	MaxBeamSlope         float64
	BeatsPerGroup        int // auto-beam bucket size, in beats (quarter notes)
	DynamicStaffGap      float64
	ClefBandHeightSpaces float64
}

// DefaultConfiguration returns spec.md §4.7's suggested defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		HSpacing:             hspacing.DefaultConfiguration(),
		NoteheadWidthFactor:  1.18,
		StemLengthSpaces:     3.5,
		StemThickness:        1.2,
		BeamThicknessFactor:  0.5,
		MaxBeamSlope:         0.5,
		BeatsPerGroup:        2,
		DynamicStaffGap:      8,
		ClefBandHeightSpaces: 4,
	}
}

// StaffInput is one staff's Engraver-relevant context: its absolute
// center-line Y and its currently active clef/key/time.
type StaffInput struct {
	CenterY float64
	Clef    score.Clef
	Key     score.KeySignature
	Time    score.TimeSignature
}

// Input bundles everything EngraveMeasure needs for one part's measure.
type Input struct {
	Measure         *score.Measure
	Divisions       int
	IsFirstInSystem bool
	IsFirstInScore  bool
	Staves          []StaffInput // index i corresponds to score.Note.Staff == i+1
	Scaling         units.ScalingContext
	// TargetWidth is the justified width for this measure (spec.md §4.7
	// item 6); nil means lay out at natural width.
	TargetWidth *float64
	LeftX       float64
}

// EngraveMeasure implements spec.md §4.7's per-measure algorithm.
// Unknown element kinds are silently skipped and a missing duration on a
// non-rest note falls back to a quarter notehead — the engraver never
// aborts mid-measure (spec.md §4.7 "Failure semantics").
func EngraveMeasure(in Input, cfg Configuration, metrics GlyphMetrics) (engraved.Measure, []engraved.Warning) {
	divisions := in.Divisions
	if divisions <= 0 {
		divisions = 1
	}
	staffSpace := float64(in.Scaling.PointsPerStaffSpace())
	halfSpace := staffSpace / 2
	noteheadWidth := cfg.NoteheadWidthFactor * staffSpace
	// GlyphMetrics, when supplied, overrides the notehead's own geometric
	// box; HSpacing's column widths still use its own configured table
	// (spec.md §4.7's metrics query is a fallback-bearing advance lookup,
	// not a replacement for HSpacing's rhythmic spacing model).
	if metrics != nil {
		if adv, ok := metrics.Advance(engraved.GlyphNoteheadBlack); ok {
			noteheadWidth = float64(in.Scaling.StaffSpacesToPoints(adv))
		}
	}

	spacingElems, measureTicks := buildSpacingElements(in.Measure, divisions)
	result := hspacing.Compute(spacingElems, divisions, measureTicks, cfg.HSpacing)
	width := result.NaturalWidth
	if in.TargetWidth != nil && *in.TargetWidth > result.NaturalWidth {
		result = result.Justify(*in.TargetWidth)
		width = *in.TargetWidth
	}

	out := engraved.Measure{
		Number: in.Measure.Number,
		Frame:  engraved.RectWH(engraved.Pt(in.LeftX, 0), width, 0),
		Slots:  make([]engraved.Slot, len(result.Columns)),
	}
	for i, c := range result.Columns {
		out.Slots[i] = engraved.Slot{Position: c.Position, X: c.X}
	}

	staves := append([]StaffInput(nil), in.Staves...)
	if in.IsFirstInSystem {
		for i, st := range staves {
			emitStaffHead(&out, i, st, in.IsFirstInScore, halfSpace, staffSpace, cfg)
		}
	}

	eng := &engraver{
		out:           &out,
		result:        result,
		staves:        staves,
		cfg:           cfg,
		metrics:       metrics,
		halfSpace:     halfSpace,
		staffSpace:    staffSpace,
		noteheadWidth: noteheadWidth,
		divisions:     divisions,
		primaryVoice:  primaryVoice(in.Measure),
		lastOnset:     map[int]int{},
		explicitBeams: map[beamKey]*explicitBeam{},
		autoPending:   map[beamKey][]*pendingMember{},
		autoBucketMap: map[beamKey]int{},
	}

	currentPosition := 0
	barlineStyle := engraved.BarlineStyleRegular
	for _, el := range in.Measure.Elements {
		switch el.Kind {
		case score.ElementForward:
			currentPosition += el.Ticks
		case score.ElementBackup:
			currentPosition -= el.Ticks
		case score.ElementAttributes:
			eng.applyAttributes(el.Attributes)
		case score.ElementDirection:
			eng.emitDirection(el.Direction, currentPosition)
		case score.ElementBarline:
			if el.Barline.Location == score.BarlineRight {
				barlineStyle = engravedBarlineStyle(el.Barline.Style)
			}
		case score.ElementNote:
			onset := currentPosition
			if el.Note.ChordTone {
				onset = eng.lastOnset[el.Note.Voice]
			} else {
				eng.lastOnset[el.Note.Voice] = currentPosition
			}
			eng.emitNote(el.Note, onset)
			if !el.Note.ChordTone {
				currentPosition += el.Note.DurationTicks
			}
		}
	}
	eng.flushAutoBeams()

	out.RightBarlineX = width
	out.LeftBarlineX = 0
	out.Elements = append(out.Elements, engraved.Element{
		Kind:   engraved.ElemBarline,
		Bounds: engraved.RectWH(engraved.Pt(width, 0), cfg.HSpacing.BarlineWidth, 0),
		Barline: &engraved.SystemBarline{
			X:     width,
			Style: barlineStyle,
		},
	})
	out.BeamGroups = eng.beamGroups
	return out, eng.warnings
}

// primaryVoice picks the measure's primary voice (spec.md §4.7 "in
// multi-voice contexts, suppress rests whose voice ≠ primary"): the
// lowest voice number among the measure's notes, or 1 if the measure
// has none.
func primaryVoice(m *score.Measure) int {
	voice := 0
	for _, el := range m.Elements {
		if el.Kind != score.ElementNote {
			continue
		}
		if voice == 0 || el.Note.Voice < voice {
			voice = el.Note.Voice
		}
	}
	if voice == 0 {
		voice = 1
	}
	return voice
}

func buildSpacingElements(m *score.Measure, divisions int) ([]hspacing.Element, int) {
	var elems []hspacing.Element
	position := 0
	maxTick := 0
	for _, el := range m.Elements {
		switch el.Kind {
		case score.ElementForward:
			position += el.Ticks
		case score.ElementBackup:
			position -= el.Ticks
		case score.ElementNote:
			if el.Note.ChordTone {
				continue
			}
			accCount := 0
			if el.Note.HasAccidental {
				accCount = 1
			}
			kind := hspacing.KindNote
			if el.Note.Kind == score.Rest {
				kind = hspacing.KindRest
			}
			elems = append(elems, hspacing.Element{
				Position: position, Voice: el.Note.Voice, Staff: el.Note.Staff,
				Kind: kind, HasAccidental: el.Note.HasAccidental,
				DotCount: el.Note.Dots, AccidentalCount: accCount,
			})
			end := position + el.Note.DurationTicks
			if end > maxTick {
				maxTick = end
			}
			position += el.Note.DurationTicks
		}
	}
	return elems, maxTick
}

type beamKey struct {
	staff, voice int
}

type pendingMember struct {
	note      *engraved.Note
	x         float64
	flagCount int // used only if this member ends up not beamed after all
}

type explicitBeam struct {
	members []*pendingMember
}

type engraver struct {
	out           *engraved.Measure
	result        hspacing.Result
	staves        []StaffInput
	cfg           Configuration
	metrics       GlyphMetrics
	halfSpace     float64
	staffSpace    float64
	noteheadWidth float64
	divisions     int
	primaryVoice  int
	lastOnset     map[int]int

	explicitBeams map[beamKey]*explicitBeam
	autoPending   map[beamKey][]*pendingMember
	autoBucketMap map[beamKey]int
	beamGroups    []engraved.BeamGroup
	warnings      []engraved.Warning
}

func (e *engraver) applyAttributes(attrs score.Attributes) {
	for _, c := range attrs.Clefs {
		if i := c.Staff - 1; i >= 0 && i < len(e.staves) {
			e.staves[i].Clef = c
		}
	}
	for _, k := range attrs.Keys {
		if i := k.Staff - 1; i >= 0 && i < len(e.staves) {
			e.staves[i].Key = k
		}
	}
	for _, ti := range attrs.Times {
		if i := ti.Staff - 1; i >= 0 && i < len(e.staves) {
			e.staves[i].Time = ti
		}
	}
}

func (e *engraver) staffFor(staff int) (int, StaffInput) {
	if len(e.staves) == 0 {
		return 0, StaffInput{}
	}
	idx := staff - 1
	if idx < 0 || idx >= len(e.staves) {
		idx = 0
	}
	return idx, e.staves[idx]
}

func (e *engraver) emitNote(n score.Note, onset int) {
	if n.Kind == score.Rest && n.Voice != e.primaryVoice {
		return
	}
	staffIdx, st := e.staffFor(n.Staff)
	x := e.result.Interpolate(onset)
	pos := staffPosition(n, st.Clef)
	y := st.CenterY - float64(pos)*e.halfSpace

	note := &engraved.Note{
		SourceID:      n.ID,
		Glyph:         noteheadGlyph(n),
		Position:      engraved.Pt(x, y),
		StaffPosition: pos,
		IsRest:        n.Kind == score.Rest,
	}
	if n.HasAccidental {
		note.Accidental = &engraved.EngravedAccidental{
			Glyph:    accidentalGlyph(n.Accidental),
			Position: engraved.Pt(x-e.noteheadWidth-e.cfg.HSpacing.AccidentalGap-e.cfg.HSpacing.AccidentalWidth, y),
		}
	}
	for d := 0; d < n.Dots; d++ {
		note.Dots = append(note.Dots, engraved.Pt(x+e.noteheadWidth+float64(d)*e.cfg.HSpacing.DotWidth, y))
	}

	bounds := engraved.RectWH(engraved.Pt(x, y-e.staffSpace/2), e.noteheadWidth, e.staffSpace)

	isStemOwner := !n.ChordTone && n.Kind != score.Rest
	if isStemOwner {
		dir := stemDirection(n, pos)
		note.Stem = buildStem(e.cfg, pos, dir, y, x, e.noteheadWidth, e.halfSpace, e.staffSpace)
		flagCount := n.VisualDuration.FlagCount()
		if len(n.BeamEntries) == 0 && n.VisualDuration.Beamable() {
			e.trackAutoBeam(staffIdx, n.Voice, onset, note, flagCount)
		} else {
			if len(n.BeamEntries) > 0 {
				e.flushAutoBeamsFor(beamKey{staffIdx, n.Voice})
			}
			if flagCount > 0 {
				g := engraved.FlagGlyph(flagCount, dir == engraved.StemUp)
				note.Flag = &engraved.EngravedGlyph{Glyph: g, Position: note.Stem.End}
			}
			e.trackExplicitBeam(staffIdx, n, note)
		}
	}

	e.out.Elements = append(e.out.Elements, engraved.Element{
		Kind: elementKindFor(n), Staff: staffIdx, Bounds: bounds, Note: note,
	})
}

func elementKindFor(n score.Note) engraved.ElementKind {
	if n.Kind == score.Rest {
		return engraved.ElemRest
	}
	return engraved.ElemNote
}

func (e *engraver) trackExplicitBeam(staffIdx int, n score.Note, note *engraved.Note) {
	var primary *score.BeamEntry
	for i := range n.BeamEntries {
		if n.BeamEntries[i].Level == 1 {
			primary = &n.BeamEntries[i]
			break
		}
	}
	if primary == nil {
		return
	}
	key := beamKey{staffIdx, n.Voice}
	switch primary.Type {
	case score.BeamBegin:
		e.explicitBeams[key] = &explicitBeam{members: []*pendingMember{{note: note, x: note.Stem.Start.X}}}
	case score.BeamContinue:
		if b := e.explicitBeams[key]; b != nil {
			b.members = append(b.members, &pendingMember{note: note, x: note.Stem.Start.X})
		}
	case score.BeamEnd:
		if b := e.explicitBeams[key]; b != nil {
			b.members = append(b.members, &pendingMember{note: note, x: note.Stem.Start.X})
			e.finalizeBeam(staffIdx, b.members)
			delete(e.explicitBeams, key)
		}
	}
}

// trackAutoBeam buckets beamable notes without explicit beam entries by
// position/(divisions*beats_per_group); a run of >=2 consecutive notes
// in the same bucket (consecutive meaning uninterrupted by a different
// bucket or an explicitly-beamed note in the same voice) is completed as
// one auto-beam group (spec.md §4.7 item 4).
func (e *engraver) trackAutoBeam(staffIdx, voice, onset int, note *engraved.Note, flagCount int) {
	key := beamKey{staffIdx, voice}
	bucket := onset / (e.divisions * maxInt(e.cfg.BeatsPerGroup, 1))
	member := &pendingMember{note: note, x: note.Stem.Start.X, flagCount: flagCount}
	if last, ok := e.autoBucketMap[key]; ok && last == bucket {
		e.autoPending[key] = append(e.autoPending[key], member)
		return
	}
	e.flushAutoBeamsFor(key)
	e.autoPending[key] = []*pendingMember{member}
	e.autoBucketMap[key] = bucket
}

// flushAutoBeamsFor closes out the auto-beam run pending for key: two or
// more members become one beam group; a lone member gets the flag it
// would have had if beaming had never been attempted.
func (e *engraver) flushAutoBeamsFor(key beamKey) {
	members := e.autoPending[key]
	if len(members) >= 2 {
		e.finalizeBeam(key.staff, members)
	} else {
		for _, m := range members {
			if m.flagCount > 0 {
				dir := m.note.Stem.Direction
				m.note.Flag = &engraved.EngravedGlyph{Glyph: engraved.FlagGlyph(m.flagCount, dir == engraved.StemUp), Position: m.note.Stem.End}
			}
		}
	}
	delete(e.autoPending, key)
	delete(e.autoBucketMap, key)
}

func (e *engraver) flushAutoBeams() {
	for key := range e.autoPending {
		e.flushAutoBeamsFor(key)
	}
}

func (e *engraver) finalizeBeam(staffIdx int, members []*pendingMember) {
	if len(members) < 2 {
		return
	}
	stemPositions := make([]engraved.Point, len(members))
	for i, m := range members {
		stemPositions[i] = m.note.Stem.End
	}
	dir := members[0].note.Stem.Direction
	group := beamGeometry(stemPositions, dir, staffIdx, e.cfg, e.staffSpace)
	for i, m := range members {
		m.note.Stem.End = engraved.Pt(stemPositions[i].X, group.YAt(stemPositions[i].X))
		m.note.Flag = nil
	}
	e.beamGroups = append(e.beamGroups, group)
}

// beamGeometry implements spec.md §4.7 item 5: a candidate slope through
// the first and last stem end, clamped, then shifted outward by the
// largest overshoot so every stem can reach the line (the "shift-to-reach"
// rule).
func beamGeometry(stemEnds []engraved.Point, dir engraved.StemDir, staffIdx int, cfg Configuration, staffSpace float64) engraved.BeamGroup {
	k := len(stemEnds)
	s0 := stemEnds[0]
	sEnd := stemEnds[k-1]
	slope := 0.0
	if sEnd.X != s0.X {
		slope = (sEnd.Y - s0.Y) / (sEnd.X - s0.X)
	}
	if slope > cfg.MaxBeamSlope {
		slope = cfg.MaxBeamSlope
	}
	if slope < -cfg.MaxBeamSlope {
		slope = -cfg.MaxBeamSlope
	}
	up := dir == engraved.StemUp
	beamYAt := func(x float64) float64 { return s0.Y + slope*(x-s0.X) }
	overshoot := 0.0
	for _, sp := range stemEnds {
		line := beamYAt(sp.X)
		var o float64
		if up {
			o = line - sp.Y
		} else {
			o = sp.Y - line
		}
		if o > overshoot {
			overshoot = o
		}
	}
	startY := s0.Y
	if up {
		startY -= overshoot
	} else {
		startY += overshoot
	}
	group := engraved.BeamGroup{
		Start:     engraved.Pt(s0.X, startY),
		End:       engraved.Pt(sEnd.X, startY+slope*(sEnd.X-s0.X)),
		Slope:     slope,
		Thickness: cfg.BeamThicknessFactor * staffSpace,
		Direction: dir,
		Staff:     staffIdx,
	}
	for _, sp := range stemEnds {
		group.MemberStemsX = append(group.MemberStemsX, sp.X)
	}
	return group
}

func (e *engraver) emitDirection(dir score.Direction, position int) {
	staffIdx, st := e.staffFor(dir.Staff)
	x := e.result.Interpolate(position)
	sign := -1.0
	if !dir.Above {
		sign = 1
	}
	y := st.CenterY + sign*e.cfg.DynamicStaffGap
	e.out.Elements = append(e.out.Elements, engraved.Element{
		Kind:   engraved.ElemDirection,
		Staff:  staffIdx,
		Bounds: engraved.RectWH(engraved.Pt(x, y), 10, 10),
		Direction: &engraved.EngravedDirection{
			Text: dir.Text, Glyph: dynamicGlyph(dir.Dynamic), Position: engraved.Pt(x, y),
		},
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
