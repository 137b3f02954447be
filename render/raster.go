package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"

	"scoreforge.dev/affine"
)

// Rasterizer strokes a Plan's Move/Line commands into an image, using
// rasterx's scanline dasher for anti-aliased stroke rendering.
type Rasterizer struct {
	p       f32.Vec2
	started bool
	dasher  *rasterx.Dasher
	img     image.Image
	xform   f32.Aff3
}

// NewRasterizer builds a Rasterizer over img, scaling engraved-space
// (points) coordinates by scale to reach device pixels, and stroking with
// the given width and color.
func NewRasterizer(img draw.Image, dr image.Rectangle, scale float32, strokeWidth float32, col color.Color) *Rasterizer {
	width, height := dr.Dx(), dr.Dy()
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	origin := affine.Pointf(img.Bounds().Min)
	xform := affine.Mul(
		affine.Offsetting(affine.Scale(origin, -1)),
		affine.Scaling(f32.Vec2{scale, scale}),
	)
	r := &Rasterizer{
		dasher: rasterx.NewDasher(width, height, scanner),
		img:    img,
		xform:  xform,
	}
	width26_6 := fixed.Int26_6(strokeWidth * 64)
	if width26_6 < fixed.I(1) {
		width26_6 = fixed.I(1)
	}
	r.dasher.SetStroke(width26_6, 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	r.dasher.SetColor(col)
	return r
}

// Command feeds one pen instruction to the dasher.
func (r *Rasterizer) Command(cmd Command) {
	pf := affine.Transform(r.xform, f32.Vec2{float32(cmd.Coord.X), float32(cmd.Coord.Y)})
	if cmd.Line {
		if !r.started {
			r.dasher.Start(rasterx.ToFixedP(float64(r.p[0]), float64(r.p[1])))
			r.started = true
		}
		r.dasher.Line(rasterx.ToFixedP(float64(pf[0]), float64(pf[1])))
	} else {
		if r.started {
			r.dasher.Stop(false)
			r.started = false
		}
		r.p = pf
	}
}

// Rasterize flushes any open path and draws the accumulated strokes.
func (r *Rasterizer) Rasterize() {
	if r.started {
		r.dasher.Stop(false)
	}
	r.dasher.Draw()
}

// Run feeds every command of p to r and rasterizes.
func (r *Rasterizer) Run(p Plan) {
	p(r.Command)
	r.Rasterize()
}
