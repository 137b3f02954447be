package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scoreforge.dev/layout"
	"scoreforge.dev/render"
)

var (
	renderOutDir string
	renderScale  float64
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "lay out a score and rasterize each page to a debug PNG",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&scorePath, "score", "", "path to a JSON-encoded score.Score (defaults to a built-in sample)")
	renderCmd.Flags().StringVar(&renderOutDir, "out", "pages", "output directory for rendered PNGs")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 1, "device pixels per point")
}

func runRender(cmd *cobra.Command, args []string) error {
	sc, err := loadScore(scorePath)
	if err != nil {
		return err
	}
	got, warnings, err := layout.Layout(sc, layout.DefaultLayoutContext(), layout.DefaultConfiguration())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	reportWarnings(warnings)

	if err := os.MkdirAll(renderOutDir, 0o755); err != nil {
		return err
	}
	cfg := render.DefaultConfiguration()
	cfg.Scale = renderScale
	for i, img := range render.RenderScore(got, cfg) {
		path := filepath.Join(renderOutDir, fmt.Sprintf("page-%d.png", i+1))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}
	return nil
}
