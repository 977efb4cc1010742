package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acousticlab/soundview/internal/views"
)

// newGetCmd creates the "get" subcommand, which fetches a single view
// through the retrieval layer and renders it.
func newGetCmd() *cobra.Command {
	var (
		station   string
		year      string
		bandwidth string
		index     string
		threshold string
		rawJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "get <view>",
		Short: "Fetch a view and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := views.NewRequest(args[0], map[string]string{
				"station":   station,
				"year":      year,
				"bandwidth": bandwidth,
				"index":     index,
				"threshold": threshold,
			})
			if err != nil {
				return err
			}

			loader, err := newLoaderFromFlags(cmd)
			if err != nil {
				return err
			}

			data, err := loader.Load(cmd.Context(), req)
			if err != nil {
				return err
			}

			if rawJSON {
				var pretty json.RawMessage = data
				out, marshalErr := json.MarshalIndent(pretty, "", "  ")
				if marshalErr != nil {
					return marshalErr
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			return renderView(cmd.OutOrStdout(), req, data)
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "station identifier")
	cmd.Flags().StringVar(&year, "year", "", "year filter")
	cmd.Flags().StringVar(&bandwidth, "bandwidth", "", "bandwidth filter")
	cmd.Flags().StringVar(&index, "index", "", "acoustic index name")
	cmd.Flags().StringVar(&threshold, "threshold", "", "correlation threshold")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "print the raw JSON payload")

	return cmd
}
