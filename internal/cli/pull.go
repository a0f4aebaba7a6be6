package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"inferd/internal/common/fsutil"
	"inferd/internal/registry"
)

func newPullCmd(cfg *Config) *cobra.Command {
	var (
		dir   string
		name  string
		quiet bool
	)
	cmd := &cobra.Command{
		Use:     "pull <url>",
		Short:   "Download a GGUF model into the models directory",
		Example: "  inferctl pull https://example.com/models/TinyLlama.Q4_K_M.gguf",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			target := name
			if target == "" {
				target = path.Base(url)
			}
			if !strings.HasSuffix(strings.ToLower(target), ".gguf") {
				return fmt.Errorf("target %q is not a .gguf file (use --name to override)", target)
			}
			base, err := fsutil.ExpandHome(dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(base, 0o755); err != nil {
				return err
			}
			dest := filepath.Join(base, target)
			if fsutil.PathExists(dest) {
				return fmt.Errorf("%s already exists", dest)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("download failed: %s", resp.Status)
			}

			// Download into a temp file and rename once complete so a partial
			// pull never shows up in the registry.
			tmp, err := os.CreateTemp(base, ".pull-*")
			if err != nil {
				return err
			}
			defer os.Remove(tmp.Name())

			var out io.Writer = tmp
			var bar *progressbar.ProgressBar
			if !quiet {
				bar = progressbar.NewOptions64(resp.ContentLength,
					progressbar.OptionSetDescription(target),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowBytes(true),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "=",
						SaucerHead:    ">",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
				)
				out = io.MultiWriter(tmp, bar)
			}
			if _, err := io.Copy(out, resp.Body); err != nil {
				tmp.Close()
				return fmt.Errorf("download: %w", err)
			}
			if err := tmp.Close(); err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := os.Rename(tmp.Name(), dest); err != nil {
				return err
			}

			fp, err := registry.Fingerprint(dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulled %s (fingerprint %s)\n", dest, fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "~/models/llm", "Directory to store the model in")
	cmd.Flags().StringVar(&name, "name", "", "Target filename (defaults to the URL basename)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress the progress bar")
	return cmd
}
