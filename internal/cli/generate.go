package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

// streamMsg is one NDJSON line of a generate response.
type streamMsg struct {
	Fragment string `json:"fragment"`
	Done     bool   `json:"done"`
	Content  string `json:"content"`
	Model    string `json:"model"`
	Cached   bool   `json:"cached"`
	types.GenerationStats
}

func newGenerateCmd(cfg *Config) *cobra.Command {
	var (
		model         string
		maxTokens     int
		temperature   float64
		topP          float64
		topK          int
		repeatPenalty float64
		seed          int64
		stop          []string
		noStream      bool
		stats         bool
	)
	cmd := &cobra.Command{
		Use:     "generate [prompt]",
		Short:   "Generate a completion, streaming tokens to stdout",
		Example: "  inferctl generate \"Write a haiku about the ocean.\"\n  echo \"Say hi\" | inferctl generate -",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if prompt == "" || prompt == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				prompt = strings.TrimSpace(string(b))
			}
			if prompt == "" {
				return fmt.Errorf("prompt is required (argument or stdin)")
			}

			req := types.GenerateRequest{
				Model:         model,
				Prompt:        prompt,
				Stream:        !noStream,
				MaxTokens:     maxTokens,
				Temperature:   temperature,
				TopP:          topP,
				TopK:          topK,
				Stop:          stop,
				Seed:          seed,
				RepeatPenalty: repeatPenalty,
			}

			out := cmd.OutOrStdout()
			var final streamMsg
			err := newClient(cfg).generate(cmd.Context(), req, func(line []byte) error {
				var msg streamMsg
				if err := json.Unmarshal(line, &msg); err != nil {
					return fmt.Errorf("bad stream line %q: %w", line, err)
				}
				if msg.Done {
					final = msg
					if noStream {
						fmt.Fprint(out, msg.Content)
					}
					return nil
				}
				fmt.Fprint(out, msg.Fragment)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			if stats {
				errOut := cmd.ErrOrStderr()
				fmt.Fprintf(errOut, "model=%s finish=%s tokens=%d prompt_tokens=%d time=%dms tok/s=%.1f",
					final.Model, final.FinishReason, final.TokensGenerated, final.PromptTokens,
					final.GenerationTimeMs, final.TokensPerSecond)
				if final.Cached {
					fmt.Fprint(errOut, " cached=true")
				}
				fmt.Fprintln(errOut)
			}
			if final.FinishReason == "error" {
				return fmt.Errorf("generation ended with an engine error (partial output above)")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model id (defaults to the server's current or default model)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum new tokens (0=server default)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (0=server default, negative=greedy)")
	cmd.Flags().Float64Var(&topP, "top-p", 0, "Nucleus sampling probability (0=server default)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Top-K sampling cutoff (0=server default)")
	cmd.Flags().Float64Var(&repeatPenalty, "repeat-penalty", 0, "Repetition penalty (0=server default)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Sampling seed (0=random)")
	cmd.Flags().StringArrayVar(&stop, "stop", nil, "Stop sequence (repeatable)")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "Wait for the full completion instead of streaming")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print generation stats to stderr")
	return cmd
}
