// Package golden implements gzip+CBOR golden-snapshot comparison for
// engraved.Score trees, for regression-testing the layout engine's output
// without asserting on exact floating-point geometry.
package golden

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"scoreforge.dev/engraved"
	"scoreforge.dev/render"
)

// Compare checks got against the golden snapshot stored at path. With
// update set, it instead (re)writes the snapshot from got. When dumpDir is
// non-empty, a rendered PNG of every page is written there, both on
// mismatch and on update, for visual inspection.
func Compare(path string, update bool, dumpDir string, got *engraved.Score) error {
	if dumpDir != "" {
		if err := dumpPNGs(dumpDir, filepath.Base(path), got); err != nil {
			return err
		}
	}
	if update {
		return writeSnapshot(path, got)
	}
	want, err := readSnapshot(path)
	if err != nil {
		return err
	}
	if diff := compareScores(want, got); diff != "" {
		return fmt.Errorf("%s: %s", path, diff)
	}
	return nil
}

func writeSnapshot(path string, sc *engraved.Score) error {
	enc, err := cbor.Marshal(sc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	buf := new(bytes.Buffer)
	w, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := w.Write(enc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o640)
}

func readSnapshot(path string) (*engraved.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var sc engraved.Score
	if err := cbor.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

func dumpPNGs(dumpDir, base string, sc *engraved.Score) error {
	if err := os.MkdirAll(dumpDir, 0o750); err != nil {
		return err
	}
	imgs := render.RenderScore(sc, render.DefaultConfiguration())
	for i, img := range imgs {
		fpath := filepath.Join(dumpDir, fmt.Sprintf("%s.page%d.png", base, i+1))
		f, err := os.Create(fpath)
		if err != nil {
			return err
		}
		err = encodePNG(f, img)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// pointEpsilon is the tolerance, in points, two positions may differ by
// and still be considered the same layout: small enough to catch a real
// regression, large enough to absorb floating-point summation order
// differences across otherwise-identical runs.
const pointEpsilon = 0.5

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= pointEpsilon
}

func pointsCloseEnough(a, b engraved.Point) bool {
	return closeEnough(a.X, b.X) && closeEnough(a.Y, b.Y)
}

// compareScores returns a human-readable description of the first
// structural or geometric difference it finds, or "" if want and got
// agree within tolerance.
func compareScores(want, got *engraved.Score) string {
	if len(want.Pages) != len(got.Pages) {
		return fmt.Sprintf("page count: want %d, got %d", len(want.Pages), len(got.Pages))
	}
	for i := range want.Pages {
		if diff := comparePages(want.Pages[i], got.Pages[i]); diff != "" {
			return fmt.Sprintf("page %d: %s", i+1, diff)
		}
	}
	return ""
}

func comparePages(want, got engraved.Page) string {
	if len(want.Systems) != len(got.Systems) {
		return fmt.Sprintf("system count: want %d, got %d", len(want.Systems), len(got.Systems))
	}
	for i := range want.Systems {
		if diff := compareSystems(want.Systems[i], got.Systems[i]); diff != "" {
			return fmt.Sprintf("system %d: %s", i, diff)
		}
	}
	return ""
}

func compareSystems(want, got engraved.System) string {
	if !closeEnough(want.ContentWidth, got.ContentWidth) {
		return fmt.Sprintf("content width: want %v, got %v", want.ContentWidth, got.ContentWidth)
	}
	if len(want.Staves) != len(got.Staves) {
		return fmt.Sprintf("staff count: want %d, got %d", len(want.Staves), len(got.Staves))
	}
	for i := range want.Staves {
		if !closeEnough(want.Staves[i].CenterY, got.Staves[i].CenterY) {
			return fmt.Sprintf("staff %d center y: want %v, got %v", i, want.Staves[i].CenterY, got.Staves[i].CenterY)
		}
	}
	if len(want.Measures) != len(got.Measures) {
		return fmt.Sprintf("measure count: want %d, got %d", len(want.Measures), len(got.Measures))
	}
	for i := range want.Measures {
		if diff := compareMeasures(want.Measures[i], got.Measures[i]); diff != "" {
			return fmt.Sprintf("measure %d: %s", i, diff)
		}
	}
	return ""
}

func compareMeasures(want, got engraved.Measure) string {
	if len(want.Elements) != len(got.Elements) {
		return fmt.Sprintf("element count: want %d, got %d", len(want.Elements), len(got.Elements))
	}
	for i := range want.Elements {
		we, ge := want.Elements[i], got.Elements[i]
		if we.Kind != ge.Kind {
			return fmt.Sprintf("element %d kind: want %v, got %v", i, we.Kind, ge.Kind)
		}
		if !pointsCloseEnough(we.Bounds.Min, ge.Bounds.Min) || !pointsCloseEnough(we.Bounds.Max, ge.Bounds.Max) {
			return fmt.Sprintf("element %d bounds: want %v, got %v", i, we.Bounds, ge.Bounds)
		}
	}
	return ""
}
