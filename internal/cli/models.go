package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

func newModelsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models known to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.ModelsResponse
			if err := newClient(cfg).getJSON(cmd.Context(), "/models", &resp); err != nil {
				return err
			}
			if len(resp.Models) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no models found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tQUANT\tFAMILY\tSIZE_MB\tFINGERPRINT")
			for _, m := range resp.Models {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.ID, m.Quant, m.Family, m.SizeMB, m.Fingerprint)
			}
			return tw.Flush()
		},
	}
}
