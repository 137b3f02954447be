package engraved

import "testing"

func TestRectShrink(t *testing.T) {
	r := RectWH(Pt(0, 0), 100, 200)
	got := r.Shrink(10, 20, 30, 40)
	want := Rect{Min: Pt(40, 10), Max: Pt(80, 170)}
	if got != want {
		t.Errorf("Shrink() = %+v, want %+v", got, want)
	}
}

func TestRectShrinkClamps(t *testing.T) {
	r := RectWH(Pt(0, 0), 10, 10)
	got := r.Shrink(0, 100, 0, 100)
	if got.Min.X > got.Max.X {
		t.Errorf("Shrink() produced an inverted rect: %+v", got)
	}
}

func TestRectCutTop(t *testing.T) {
	r := RectWH(Pt(0, 0), 100, 100)
	top, bottom := r.CutTop(30)
	if top.Dy() != 30 || bottom.Dy() != 70 {
		t.Errorf("CutTop() top.Dy=%v bottom.Dy=%v, want 30, 70", top.Dy(), bottom.Dy())
	}
	if top.Max.Y != bottom.Min.Y {
		t.Errorf("CutTop() must produce adjacent rectangles")
	}
}

func TestRectIntersectsAndOverlap(t *testing.T) {
	a := RectWH(Pt(0, 0), 10, 10)
	b := RectWH(Pt(5, 5), 10, 10)
	if !a.Intersects(b) {
		t.Fatal("expected intersection")
	}
	ov := a.Overlap(b)
	want := Rect{Min: Pt(5, 5), Max: Pt(10, 10)}
	if ov != want {
		t.Errorf("Overlap() = %+v, want %+v", ov, want)
	}
	c := RectWH(Pt(100, 100), 10, 10)
	if a.Intersects(c) {
		t.Error("did not expect intersection")
	}
}

func TestBeamGroupYAt(t *testing.T) {
	b := BeamGroup{Start: Pt(0, 100), Slope: 0.5}
	if got := b.YAt(10); got != 105 {
		t.Errorf("YAt(10) = %v, want 105", got)
	}
	if got := b.YAt(0); got != 100 {
		t.Errorf("YAt(0) = %v, want 100", got)
	}
}

func TestStemLength(t *testing.T) {
	s := Stem{Start: Pt(0, 100), End: Pt(0, 65)}
	if got := s.Length(); got != 35 {
		t.Errorf("Length() = %v, want 35", got)
	}
}
