package render

import (
	"image/color"
	"testing"

	"scoreforge.dev/engraved"
)

func onePageScore() *engraved.Score {
	staff := engraved.Staff{
		PartIndex: 0, StaffIndex: 1,
		Frame:             engraved.RectWH(engraved.Pt(40, 40), 400, 40),
		CenterY:           60,
		LineCount:         5,
		HeightStaffSpaces: 4,
		HeadClef: &engraved.Clef{
			Glyph: engraved.GlyphGClef, Position: engraved.Pt(44, 60),
			Bounds: engraved.RectWH(engraved.Pt(44, 44), 12, 32),
		},
	}
	note := &engraved.Note{
		Glyph: engraved.GlyphNoteheadBlack, Position: engraved.Pt(100, 60),
		Stem: &engraved.Stem{Start: engraved.Pt(103, 60), End: engraved.Pt(103, 25), Direction: engraved.StemUp},
	}
	measure := engraved.Measure{
		Number: 1,
		Frame:  engraved.RectWH(engraved.Pt(60, 40), 380, 40),
		Elements: []engraved.Element{
			{Kind: engraved.ElemClef, Staff: 0, Clef: staff.HeadClef},
			{Kind: engraved.ElemNote, Staff: 0, Note: note},
			{Kind: engraved.ElemDirection, Staff: 0, Direction: &engraved.EngravedDirection{Text: "mf", Position: engraved.Pt(100, 30)}},
		},
	}
	system := engraved.System{
		Frame:        engraved.RectWH(engraved.Pt(40, 40), 400, 40),
		ContentWidth: 400,
		Staves:       []engraved.Staff{staff},
		Measures:     []engraved.Measure{measure},
		Barlines: []engraved.SystemBarline{
			{X: 440, TopY: 40, BottomY: 80, Style: engraved.BarlineStyleFinal},
		},
	}
	page := engraved.Page{
		Number: 1,
		Frame:  engraved.RectWH(engraved.Pt(0, 0), 500, 700),
		Credits: []engraved.Credit{
			{Text: "Test Piece", Position: engraved.Pt(200, 20)},
		},
		Systems: []engraved.System{system},
	}
	return &engraved.Score{Pages: []engraved.Page{page}}
}

func TestRenderPageProducesNonEmptyImage(t *testing.T) {
	sc := onePageScore()
	cfg := DefaultConfiguration()
	img := RenderPage(sc.Pages[0], cfg)
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("got empty image bounds %v", img.Bounds())
	}

	white := true
	bg := img.Bounds()
	for y := bg.Min.Y; y < bg.Max.Y && white; y++ {
		for x := bg.Min.X; x < bg.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			wr, wg, wb, wa := color.White.RGBA()
			if r != wr || g != wg || b != wb || a != wa {
				white = false
				break
			}
		}
	}
	if white {
		t.Error("expected the rendered page to contain non-background pixels")
	}
}

func TestRenderPageScalesOutputSize(t *testing.T) {
	sc := onePageScore()
	cfg := DefaultConfiguration()
	cfg.Scale = 2
	img := RenderPage(sc.Pages[0], cfg)
	want := int(sc.Pages[0].Frame.Dx() * 2)
	if got := img.Bounds().Dx(); got != want {
		t.Errorf("got width %d, want %d", got, want)
	}
}

func TestRenderScoreRendersOnePageEach(t *testing.T) {
	sc := onePageScore()
	sc.Pages = append(sc.Pages, sc.Pages[0])
	imgs := RenderScore(sc, DefaultConfiguration())
	if len(imgs) != 2 {
		t.Fatalf("got %d images, want 2", len(imgs))
	}
}

func TestPlanCommandsConcatenates(t *testing.T) {
	a := segment(engraved.Pt(0, 0), engraved.Pt(1, 1))
	b := segment(engraved.Pt(2, 2), engraved.Pt(3, 3))
	var cmds []Command
	Commands(a, b)(func(c Command) { cmds = append(cmds, c) })
	if len(cmds) != 4 {
		t.Fatalf("got %d commands, want 4", len(cmds))
	}
	if cmds[0].Line || cmds[2].Line {
		t.Error("expected move commands to start each segment")
	}
}
