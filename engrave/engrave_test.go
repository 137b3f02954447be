package engrave

import (
	"testing"

	"scoreforge.dev/engraved"
	"scoreforge.dev/score"
	"scoreforge.dev/units"
)

func quarterNote(staff, step, octave int) score.MeasureElement {
	return score.MeasureElement{
		Kind: score.ElementNote,
		Note: score.Note{
			Kind: score.Pitched, Step: step, Octave: octave,
			DurationTicks: 4, VisualDuration: score.DurationQuarter,
			Staff: staff, Voice: 1,
		},
	}
}

func trebleStaff(centerY float64) StaffInput {
	return StaffInput{CenterY: centerY, Clef: score.Clef{Sign: score.ClefG, Line: 2}}
}

func TestEngraveMeasureSingleStaffQuarterNotes(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		quarterNote(1, 6, 4), quarterNote(1, 6, 4), quarterNote(1, 6, 4), quarterNote(1, 6, 4),
	}}
	in := Input{
		Measure: m, Divisions: 4, IsFirstInSystem: true, IsFirstInScore: true,
		Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40),
	}
	out, warnings := EngraveMeasure(in, DefaultConfiguration(), nil)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", warnings)
	}
	noteCount := 0
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemNote {
			noteCount++
		}
	}
	if noteCount != 4 {
		t.Errorf("got %d note elements, want 4", noteCount)
	}
	if out.Frame.Dx() <= 0 {
		t.Errorf("measure width = %v, want positive", out.Frame.Dx())
	}
}

func TestEngraveMeasureCenterLineNote(t *testing.T) {
	// B4 is treble clef's center-line reference: staff position should be 0.
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{quarterNote(1, 6, 4)}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(100)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	var note *engraved.Note
	for i := range out.Elements {
		if out.Elements[i].Kind == engraved.ElemNote {
			note = out.Elements[i].Note
		}
	}
	if note == nil {
		t.Fatal("no note emitted")
	}
	if note.StaffPosition != 0 {
		t.Errorf("staff position = %d, want 0", note.StaffPosition)
	}
	if note.Position.Y != 100 {
		t.Errorf("Y = %v, want 100 (center line)", note.Position.Y)
	}
}

func TestEngraveMeasureRestAlwaysCenterLine(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Rest, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 1}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(50)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	var note *engraved.Note
	for i := range out.Elements {
		if out.Elements[i].Kind == engraved.ElemRest {
			note = out.Elements[i].Note
		}
	}
	if note == nil {
		t.Fatal("no rest emitted")
	}
	if note.Position.Y != 50 {
		t.Errorf("rest Y = %v, want 50", note.Position.Y)
	}
}

func TestEngraveMeasureSuppressesNonPrimaryVoiceRests(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		quarterNote(1, 6, 4),
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Rest, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 2}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(50)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemRest {
			t.Errorf("voice 2 rest should be suppressed when voice 1 is primary, got one at %+v", el.Note.Position)
		}
	}
}

func TestEngraveMeasureKeepsPrimaryVoiceRest(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Rest, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 1}},
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 2}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(50)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	restCount := 0
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemRest {
			restCount++
		}
	}
	if restCount != 1 {
		t.Errorf("got %d rest elements, want 1 (voice 1 is primary since it's lowest)", restCount)
	}
}

func TestStemDirectionFlipsAcrossCenterLine(t *testing.T) {
	dir := stemDirection(score.Note{StemDirection: score.StemAuto}, 5)
	if dir != engraved.StemDown {
		t.Errorf("direction = %v, want StemDown", dir)
	}
	dir2 := stemDirection(score.Note{StemDirection: score.StemAuto}, -5)
	if dir2 != engraved.StemUp {
		t.Errorf("direction = %v, want StemUp", dir2)
	}
}

func TestExplicitBeamGroupsTwoNotes(t *testing.T) {
	n1 := score.Note{
		Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 2, VisualDuration: score.Duration8th,
		Staff: 1, Voice: 1, BeamEntries: []score.BeamEntry{{Level: 1, Type: score.BeamBegin}},
	}
	n2 := score.Note{
		Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 2, VisualDuration: score.Duration8th,
		Staff: 1, Voice: 1, BeamEntries: []score.BeamEntry{{Level: 1, Type: score.BeamEnd}},
	}
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: n1}, {Kind: score.ElementNote, Note: n2},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	if len(out.BeamGroups) != 1 {
		t.Fatalf("got %d beam groups, want 1", len(out.BeamGroups))
	}
	if len(out.BeamGroups[0].MemberStemsX) != 2 {
		t.Errorf("beam group members = %d, want 2", len(out.BeamGroups[0].MemberStemsX))
	}
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemNote && el.Note.Flag != nil {
			t.Errorf("beamed note should not carry a flag: %+v", el.Note)
		}
	}
}

func TestAutoBeamGroupsConsecutiveEighthsInSameBucket(t *testing.T) {
	eighth := func() score.Note {
		return score.Note{Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 2, VisualDuration: score.Duration8th, Staff: 1, Voice: 1}
	}
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: eighth()}, {Kind: score.ElementNote, Note: eighth()},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	if len(out.BeamGroups) != 1 {
		t.Fatalf("got %d auto beam groups, want 1: %+v", len(out.BeamGroups), out.BeamGroups)
	}
}

func TestLoneBeamableNoteGetsFlagNotBeam(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 2, VisualDuration: score.Duration8th, Staff: 1, Voice: 1}},
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Pitched, Step: 4, Octave: 5, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 1}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	if len(out.BeamGroups) != 0 {
		t.Errorf("expected no beam groups for a single isolated eighth, got %+v", out.BeamGroups)
	}
	found := false
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemNote && el.Note.Flag != nil {
			found = true
		}
	}
	if !found {
		t.Error("expected the lone eighth note to carry a flag")
	}
}

func TestBeamGeometryShiftToReach(t *testing.T) {
	stems := []engraved.Point{{X: 0, Y: 0}, {X: 10, Y: -20}}
	group := beamGeometry(stems, engraved.StemUp, 0, DefaultConfiguration(), 40)
	// For an up-stem beam the line must sit on or above every stem end
	// (smaller or equal Y), never cutting below one.
	for _, s := range stems {
		lineY := group.YAt(s.X)
		if lineY > s.Y+1e-9 {
			t.Errorf("beam line at x=%v is below stem end %+v: line y=%v", s.X, s, lineY)
		}
	}
}

func TestChordToneReusesOnsetAndGetsNoStem(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Pitched, Step: 0, Octave: 4, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 1}},
		{Kind: score.ElementNote, Note: score.Note{Kind: score.Pitched, Step: 2, Octave: 4, DurationTicks: 4, VisualDuration: score.DurationQuarter, Staff: 1, Voice: 1, ChordTone: true}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	var notes []*engraved.Note
	for i := range out.Elements {
		if out.Elements[i].Kind == engraved.ElemNote {
			notes = append(notes, out.Elements[i].Note)
		}
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[0].Position.X != notes[1].Position.X {
		t.Errorf("chord tones should share an X position: %v vs %v", notes[0].Position.X, notes[1].Position.X)
	}
	if notes[1].Stem != nil {
		t.Error("chord tone should not own a stem")
	}
}

func TestBarlineStyleFromExplicitBarlineElement(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{
		quarterNote(1, 0, 4),
		{Kind: score.ElementBarline, Barline: score.Barline{Location: score.BarlineRight, Style: score.BarlineFinal}},
	}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	var barline *engraved.SystemBarline
	for i := range out.Elements {
		if out.Elements[i].Kind == engraved.ElemBarline {
			barline = out.Elements[i].Barline
		}
	}
	if barline == nil {
		t.Fatal("no barline emitted")
	}
	if barline.Style != engraved.BarlineStyleFinal {
		t.Errorf("barline style = %v, want BarlineStyleFinal", barline.Style)
	}
}

func TestStaffHeadEmittedOnlyWhenFirstInSystem(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{quarterNote(1, 0, 4)}}
	in := Input{
		Measure: m, Divisions: 4, IsFirstInSystem: false,
		Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40),
	}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), nil)
	for _, el := range out.Elements {
		if el.Kind == engraved.ElemClef {
			t.Error("did not expect a clef element when not first in system")
		}
	}
}

func TestJustificationStretchesColumns(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{quarterNote(1, 0, 4), quarterNote(1, 0, 4)}}
	natural := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	naturalOut, _ := EngraveMeasure(natural, DefaultConfiguration(), nil)

	target := naturalOut.Frame.Dx() * 2
	justified := natural
	justified.TargetWidth = &target
	justifiedOut, _ := EngraveMeasure(justified, DefaultConfiguration(), nil)

	if justifiedOut.Frame.Dx() != target {
		t.Errorf("justified width = %v, want %v", justifiedOut.Frame.Dx(), target)
	}
	if justifiedOut.RightBarlineX != target {
		t.Errorf("right barline X = %v, want %v", justifiedOut.RightBarlineX, target)
	}
}

type fakeMetrics struct {
	advances map[engraved.GlyphName]units.StaffSpaces
}

func (f fakeMetrics) Advance(name engraved.GlyphName) (units.StaffSpaces, bool) {
	v, ok := f.advances[name]
	return v, ok
}

func TestGlyphMetricsOverridesNoteheadWidth(t *testing.T) {
	m := &score.Measure{Number: 1, Elements: []score.MeasureElement{quarterNote(1, 0, 4)}}
	in := Input{Measure: m, Divisions: 4, Staves: []StaffInput{trebleStaff(0)}, Scaling: units.DefaultScalingContext(40)}
	metrics := fakeMetrics{advances: map[engraved.GlyphName]units.StaffSpaces{engraved.GlyphNoteheadBlack: 2}}
	out, _ := EngraveMeasure(in, DefaultConfiguration(), metrics)
	var note *engraved.Note
	for i := range out.Elements {
		if out.Elements[i].Kind == engraved.ElemNote {
			note = out.Elements[i].Note
		}
	}
	if note == nil || note.Stem == nil {
		t.Fatal("expected a stemmed note")
	}
	wantWidth := float64(in.Scaling.StaffSpacesToPoints(2))
	gotWidth := note.Stem.Start.X - note.Position.X
	if gotWidth != wantWidth {
		t.Errorf("stem start offset (notehead width) = %v, want %v", gotWidth, wantWidth)
	}
}
