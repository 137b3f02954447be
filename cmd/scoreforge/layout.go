package main

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"scoreforge.dev/layout"
	"scoreforge.dev/score"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	scorePath  string
	jsonOutput bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "run the layout engine over a score and report page/system breaks",
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().StringVar(&scorePath, "score", "", "path to a JSON-encoded score.Score (defaults to a built-in sample)")
	layoutCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full engraved.Score as JSON instead of a summary")
}

func runLayout(cmd *cobra.Command, args []string) error {
	sc, err := loadScore(scorePath)
	if err != nil {
		return err
	}
	got, warnings, err := layout.Layout(sc, layout.DefaultLayoutContext(), layout.DefaultConfiguration())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	reportWarnings(warnings)

	if jsonOutput {
		enc, err := jsonAPI.MarshalIndent(got, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}

	for _, page := range got.Pages {
		fmt.Printf("page %d: %d system(s)\n", page.Number, len(page.Systems))
		for i, sys := range page.Systems {
			fmt.Printf("  system %d: measures %d-%d, %d staves, width %.1f\n",
				i+1, sys.FirstMeasure, sys.LastMeasure, len(sys.Staves), sys.ContentWidth)
		}
	}
	return nil
}

func loadScore(path string) (*score.Score, error) {
	if path == "" {
		return sampleScore(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc score.Score
	if err := jsonAPI.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}
