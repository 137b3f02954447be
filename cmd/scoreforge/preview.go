package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"scoreforge.dev/engraved"
	"scoreforge.dev/layout"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "interactively browse a score's page and system breaks",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&scorePath, "score", "", "path to a JSON-encoded score.Score (defaults to a built-in sample)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	sc, err := loadScore(scorePath)
	if err != nil {
		return err
	}
	got, warnings, err := layout.Layout(sc, layout.DefaultLayoutContext(), layout.DefaultConfiguration())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	p := tea.NewProgram(newPreviewModel(got, warnings))
	_, err = p.Run()
	return err
}

type previewModel struct {
	score    *engraved.Score
	warnings []engraved.Warning
	page     int
}

func newPreviewModel(sc *engraved.Score, warnings []engraved.Warning) previewModel {
	return previewModel{score: sc, warnings: warnings}
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.page > 0 {
			m.page--
		}
	case "right", "l":
		if m.page < len(m.score.Pages)-1 {
			m.page++
		}
	}
	return m, nil
}

var (
	previewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	previewDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (m previewModel) View() string {
	if len(m.score.Pages) == 0 {
		return "empty score\n"
	}
	page := m.score.Pages[m.page]
	out := previewTitleStyle.Render(fmt.Sprintf("page %d/%d", page.Number, len(m.score.Pages))) + "\n"
	for i, sys := range page.Systems {
		out += fmt.Sprintf("  system %d: measures %d-%d, %d staves, width %.1f\n",
			i+1, sys.FirstMeasure, sys.LastMeasure, len(sys.Staves), sys.ContentWidth)
	}
	if len(m.warnings) > 0 {
		out += previewDimStyle.Render(fmt.Sprintf("%d warning(s) — see stderr\n", len(m.warnings)))
	}
	out += previewDimStyle.Render("←/→ pages, q to quit\n")
	return out
}
