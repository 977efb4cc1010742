package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/acousticlab/soundview/internal/views"
)

// newListCmd creates the "list" subcommand, which prints the view
// catalog.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the views published by the content endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nameStyle := lipgloss.NewStyle().Foreground(catalogNameColor()).Bold(true)
			paramStyle := lipgloss.NewStyle().Foreground(mutedColor())

			for _, d := range views.Catalog() {
				// Pad before styling: ANSI escapes would break %-22s width math.
				line := nameStyle.Render(fmt.Sprintf("%-22s", d.Name)) + " " + d.Title
				if len(d.Params) > 0 {
					line += paramStyle.Render("  (" + strings.Join(d.Params, ", ") + ")")
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
