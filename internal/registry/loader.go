// Package registry discovers GGUF model files on disk and builds the
// model catalog served by the API.
package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"inferd/internal/common/fsutil"
	"inferd/pkg/types"
)

// headerBytes is how much of each file feeds the fingerprint. GGUF puts
// its metadata up front, so the first 64 KiB changes whenever the model does.
const headerBytes = 64 << 10

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the full filename (including extension); Path is the
// absolute file path. Quant and family are parsed from the filename on a
// best-effort basis.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		p := filepath.Join(abs, name)
		stem := name[:len(name)-len(".gguf")]
		m := types.Model{
			ID:     name,
			Name:   name,
			Path:   p,
			Quant:  parseQuant(stem),
			Family: parseFamily(stem),
			SizeMB: info.Size() / (1 << 20),
		}
		if fp, err := Fingerprint(p); err == nil {
			m.Fingerprint = fp
		}
		models = append(models, m)
	}
	return models, nil
}

// Fingerprint hashes the first headerBytes of the file at path and returns
// the digest hex-encoded. The same value appears in the registry entries.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(f, headerBytes)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// quantRe matches common GGUF quantization markers (q4_k_m, iq2_xs, q8_0,
// f16, bf16, ...) anywhere in a lowercased filename stem.
var quantRe = regexp.MustCompile(`(iq[0-9]+(?:_[a-z0-9]+)*|q[0-9]+(?:_[a-z0-9]+)*|bf16|f16|f32)`)

func parseQuant(stem string) string {
	m := quantRe.FindAllString(strings.ToLower(stem), -1)
	if len(m) == 0 {
		return ""
	}
	// Quant markers sit at the end of conventional names; take the last hit.
	return strings.ToUpper(m[len(m)-1])
}

// knownFamilies are matched as substrings of the lowercased stem.
var knownFamilies = []string{"llama", "mistral", "mixtral", "qwen", "gemma", "phi", "deepseek", "falcon"}

func parseFamily(stem string) string {
	lower := strings.ToLower(stem)
	for _, fam := range knownFamilies {
		if strings.Contains(lower, fam) {
			return fam
		}
	}
	return ""
}
