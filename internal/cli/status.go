package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

func newStatusCmd(cfg *Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server state, loaded model and counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var st types.StatusResponse
			if err := newClient(cfg).getJSON(cmd.Context(), "/status", &st); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			fmt.Fprintf(out, "state: %s\n", st.State)
			if st.Model != nil {
				fmt.Fprintf(out, "model: %s (%s, %d MB)\n", st.Model.ID, st.Model.Quant, st.Model.SizeMB)
				fmt.Fprintf(out, "context: %d tokens, %d threads, %d gpu layers\n", st.ContextSize, st.Threads, st.GPULayers)
				fmt.Fprintf(out, "memory: %d MB, loaded in %d ms\n", st.MemoryBytes>>20, st.LoadTimeMs)
			}
			fmt.Fprintf(out, "queue: %d waiting, %d in flight (max depth %d)\n", st.QueueLen, st.Inflight, st.MaxQueueDepth)
			fmt.Fprintf(out, "totals: %d loads, %d unloads, %d generations, %d cache hits\n",
				st.LoadsTotal, st.UnloadsTotal, st.GenerationsTotal, st.CacheHitsTotal)
			if st.Last != nil {
				fmt.Fprintf(out, "last generation: %d tokens in %d ms (%.1f tok/s, finish=%s)\n",
					st.Last.TokensGenerated, st.Last.GenerationTimeMs, st.Last.TokensPerSecond, st.Last.FinishReason)
			}
			if st.LastError != "" {
				fmt.Fprintf(out, "last error: %s\n", st.LastError)
			}
			fmt.Fprintf(out, "uptime: %ds\n", st.UptimeSeconds)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON status")
	return cmd
}
