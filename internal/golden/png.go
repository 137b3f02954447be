package golden

import (
	"image"
	"image/png"
	"io"
)

// encodePNG is split out from dumpPNGs so the only stdlib image codec
// import sits in its own small file.
func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
