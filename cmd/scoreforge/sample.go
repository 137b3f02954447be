package main

import "scoreforge.dev/score"

// sampleScore is a small built-in demo piece, used whenever no -score
// file is given.
func sampleScore() *score.Score {
	divisions := 4
	build := func(n int, withAttrs bool) score.Measure {
		elems := []score.MeasureElement{
			quarterNote(0, 4), quarterNote(2, 4), quarterNote(4, 4), quarterNote(6, 4),
		}
		if withAttrs {
			elems = append([]score.MeasureElement{{
				Kind: score.ElementAttributes,
				Attributes: score.Attributes{
					Divisions: &divisions,
					Clefs:     []score.Clef{{Staff: 1, Sign: score.ClefG, Line: 2}},
					Keys:      []score.KeySignature{{Staff: 1, Fifths: 0}},
					Times:     []score.TimeSignature{{Staff: 1, Beats: []int{4}, BeatType: 4}},
				},
			}}, elems...)
		}
		return score.Measure{Number: n, Elements: elems}
	}

	var measures []score.Measure
	for i := 1; i <= 8; i++ {
		measures = append(measures, build(i, i == 1))
	}

	return &score.Score{
		Title:    "Sample Piece",
		Creators: []score.Creator{{Type: "composer", Name: "Test Composer"}},
		Parts: []score.Part{
			{ID: "P1", Name: "Piano", StaffCount: 1, Measures: measures},
		},
	}
}

func quarterNote(step, octave int) score.MeasureElement {
	return score.MeasureElement{
		Kind: score.ElementNote,
		Note: score.Note{
			Kind: score.Pitched, Step: step, Octave: octave,
			DurationTicks: 4, VisualDuration: score.DurationQuarter,
			Staff: 1, Voice: 1,
		},
	}
}
