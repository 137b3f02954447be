package score

import "testing"

func TestDurationKindBeamable(t *testing.T) {
	cases := map[DurationKind]bool{
		DurationWhole:   false,
		DurationHalf:    false,
		DurationQuarter: false,
		Duration8th:     true,
		Duration16th:    true,
		Duration32nd:    true,
		Duration64th:    true,
	}
	for d, want := range cases {
		if got := d.Beamable(); got != want {
			t.Errorf("%v.Beamable() = %v, want %v", d, got, want)
		}
	}
}

func TestDurationKindFlagCount(t *testing.T) {
	cases := map[DurationKind]int{
		DurationQuarter: 0,
		Duration8th:     1,
		Duration16th:    2,
		Duration32nd:    3,
		Duration64th:    4,
	}
	for d, want := range cases {
		if got := d.FlagCount(); got != want {
			t.Errorf("%v.FlagCount() = %v, want %v", d, got, want)
		}
	}
}

func TestScoreComposerName(t *testing.T) {
	s := Score{Creators: []Creator{
		{Type: "lyricist", Name: "Anon"},
		{Type: "composer", Name: "J.S. Bach"},
		{Type: "composer", Name: "Second Composer"},
	}}
	if got := s.ComposerName(); got != "J.S. Bach" {
		t.Errorf("ComposerName() = %q, want %q", got, "J.S. Bach")
	}
	if got := (Score{}).ComposerName(); got != "" {
		t.Errorf("ComposerName() on empty score = %q, want empty", got)
	}
}
