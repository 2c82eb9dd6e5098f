package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available UI themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, t := range theme.All() {
			fmt.Fprintln(out, themeLine(t))
		}
		return nil
	},
}

func themeLine(t theme.Theme) string {
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(t.Primary)).
		Render("  ") +
		lipgloss.NewStyle().
			Background(lipgloss.Color(t.Secondary)).
			Render("  ")

	id := lipgloss.NewStyle().
		Bold(true).
		Width(14).
		Render(string(t.ID))

	marker := " "
	if t.ID == theme.Default {
		marker = "*"
	}
	return fmt.Sprintf("%s %s %s %s", marker, swatch, id, t.Label)
}
