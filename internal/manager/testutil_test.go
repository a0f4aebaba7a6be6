package manager

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine/enginetest"
	"inferd/pkg/types"
)

// testRegistry is the default two-model registry used across tests.
func testRegistry() []types.Model {
	return []types.Model{
		{ID: "a.gguf", Name: "a.gguf", Path: "/models/a.gguf"},
		{ID: "b.gguf", Name: "b.gguf", Path: "/models/b.gguf"},
	}
}

// newTestManager builds a manager around the fake engine with fast timeouts.
// mut may adjust the config before construction.
func newTestManager(t *testing.T, eng *enginetest.Engine, mut func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{
		Registry:      testRegistry(),
		DefaultModel:  "a.gguf",
		Engine:        eng,
		Logger:        zerolog.Nop(),
		MaxQueueDepth: 4,
		MaxWait:       200 * time.Millisecond,
		DrainTimeout:  time.Second,
	}
	if mut != nil {
		mut(&cfg)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// generate runs a request against m and returns the decoded NDJSON lines.
func generate(t *testing.T, m *Manager, req types.GenerateRequest) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if err := m.Generate(context.Background(), req, &buf, nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return decodeLines(t, buf.Bytes())
}

// decodeLines parses an NDJSON body into one map per line.
func decodeLines(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad NDJSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// lastLine returns the final NDJSON line, which must be a done line.
func lastLine(t *testing.T, lines []map[string]any) map[string]any {
	t.Helper()
	if len(lines) == 0 {
		t.Fatal("no NDJSON lines")
	}
	done := lines[len(lines)-1]
	if done["done"] != true {
		t.Fatalf("last line is not a done line: %v", done)
	}
	return done
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
