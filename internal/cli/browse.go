package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/acousticlab/soundview/internal/tui"
	"github.com/acousticlab/soundview/internal/views"
)

// newBrowseCmd creates the "browse" subcommand, which launches the
// interactive view browser.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse views interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := newLoaderFromFlags(cmd)
			if err != nil {
				return err
			}

			render := func(req views.Request, data json.RawMessage) (string, error) {
				var b strings.Builder
				if renderErr := renderView(&b, req, data); renderErr != nil {
					return "", renderErr
				}
				return b.String(), nil
			}

			model := tui.New(cmd.Context(), loader, render)
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, runErr := p.Run(); runErr != nil {
				return fmt.Errorf("running browser: %w", runErr)
			}
			return nil
		},
	}
}
