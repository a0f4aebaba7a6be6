package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

func newLoadCmd(cfg *Config) *cobra.Command {
	var (
		path        string
		contextSize int
		threads     int
		gpuLayers   int
		batchSize   int
	)
	cmd := &cobra.Command{
		Use:     "load [model-id]",
		Short:   "Load a model, replacing the current one",
		Example: "  inferctl load tinyllama-q4.gguf\n  inferctl load --path /models/custom.gguf --context-size 4096",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.LoadRequest{
				Path:        path,
				ContextSize: contextSize,
				Threads:     threads,
				GPULayers:   gpuLayers,
				BatchSize:   batchSize,
			}
			if len(args) == 1 {
				req.Model = args[0]
			}
			if req.Model == "" && req.Path == "" {
				return fmt.Errorf("a model id or --path is required")
			}
			var resp types.LoadResponse
			if err := newClient(cfg).postJSON(cmd.Context(), "/load", req, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s (context %d) in %d ms\n", resp.Model, resp.ContextSize, resp.LoadTimeMs)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Explicit model file path, bypassing the registry")
	cmd.Flags().IntVar(&contextSize, "context-size", 0, "Context window in tokens (0=server default)")
	cmd.Flags().IntVar(&threads, "threads", 0, "CPU threads (0=server default)")
	cmd.Flags().IntVar(&gpuLayers, "gpu-layers", 0, "Layers to offload to the GPU")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Prompt processing batch size (0=server default)")
	return cmd
}

func newUnloadCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "unload",
		Short: "Unload the current model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient(cfg).postJSON(cmd.Context(), "/unload", nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "unloaded")
			return nil
		},
	}
}
