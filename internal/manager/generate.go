package manager

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"inferd/internal/gencache"
	"inferd/internal/session"
	"inferd/pkg/types"
)

// Generate resolves the target model, applies sampling defaults, runs the
// session and streams the result as NDJSON to w: one {"fragment":...} line
// per emitted fragment when streaming is requested, always followed by a
// final {"done":true,...} line carrying the full content and stats.
// Deterministic requests may be answered from the response cache.
func (m *Manager) Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flusher func()) error {
	if err := validateGenerate(req); err != nil {
		return err
	}
	mdl, err := m.resolveGenerateTarget(req.Model)
	if err != nil {
		return err
	}
	sreq := m.sessionRequest(req)

	cacheable := m.cache != nil && gencache.Cacheable(sreq)
	var key uint64
	if cacheable {
		key = gencache.Key(mdl.Path, sreq)
		if res, ok := m.cache.Get(key); ok {
			stats := statsFromSession(res.Stats)
			m.mu.Lock()
			m.cacheHitsTotal++
			m.lastStats = &stats
			m.mu.Unlock()
			genCacheHitsTotal.Inc()
			m.publisher.Publish(Event{Name: "cache_hit", ModelID: mdl.ID, Fields: map[string]any{}})
			return writeResult(w, flusher, req.Stream, mdl.ID, res, true)
		}
	}

	// Admission: FIFO queue, single in-flight generation
	release, err := m.beginGeneration(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := m.ensureLoaded(mdl); err != nil {
		return err
	}

	onFragment := func(string) error { return nil }
	if req.Stream {
		onFragment = func(frag string) error {
			if _, err := w.Write(fragmentLineJSON(frag)); err != nil {
				return err
			}
			if flusher != nil {
				flusher()
			}
			return nil
		}
	}

	res, err := m.sess.Generate(ctx, sreq, onFragment)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err.Error()
		m.mu.Unlock()
		m.publisher.Publish(Event{Name: "generate_failed", ModelID: mdl.ID, Fields: map[string]any{"error": err.Error()}})
		return err
	}

	stats := statsFromSession(res.Stats)
	m.mu.Lock()
	m.lastStats = &stats
	m.generationsTotal++
	m.lastUsed = time.Now()
	m.mu.Unlock()

	genTotal.WithLabelValues(stats.FinishReason).Inc()
	genTokensTotal.Add(float64(stats.TokensGenerated))
	genPromptTokensTotal.Add(float64(stats.PromptTokens))
	genDuration.Observe(res.Stats.Duration.Seconds())
	if stats.TokensGenerated > 0 {
		genFirstTokenSeconds.Observe(res.Stats.TimeToFirstToken.Seconds())
	}
	if cacheable {
		m.cache.Put(key, res)
	}

	m.publisher.Publish(Event{Name: "generate_done", ModelID: mdl.ID, Fields: map[string]any{
		"tokens":        stats.TokensGenerated,
		"finish_reason": stats.FinishReason,
		"dur_ms":        stats.GenerationTimeMs,
	}})
	m.log.Debug().
		Str("model", mdl.ID).
		Int("tokens", stats.TokensGenerated).
		Str("finish_reason", stats.FinishReason).
		Msg("generation complete")

	return writeResult(w, flusher, req.Stream, mdl.ID, res, false)
}

func validateGenerate(req types.GenerateRequest) error {
	if req.Prompt == "" {
		return ErrInvalidRequest("prompt is required")
	}
	if req.MaxTokens < 0 {
		return ErrInvalidRequest("max_tokens must not be negative")
	}
	if req.TopP < 0 || req.TopP > 1 {
		return ErrInvalidRequest("top_p must be within [0,1]")
	}
	return nil
}

// resolveGenerateTarget picks the model a generate request runs against:
// the explicit id, else the loaded model, else the configured default.
func (m *Manager) resolveGenerateTarget(id string) (types.Model, error) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if id == "" {
		if cur != nil {
			return *cur, nil
		}
		if m.defaultModel == "" {
			return types.Model{}, modelNotFoundError{id: "(unspecified)"}
		}
		id = m.defaultModel
	}
	if cur != nil && cur.ID == id {
		return *cur, nil
	}
	if mdl, ok := m.getModelByID(id); ok {
		return mdl, nil
	}
	return types.Model{}, modelNotFoundError{id: id}
}

// sessionRequest maps the API request to session parameters, filling unset
// fields from the configured defaults.
func (m *Manager) sessionRequest(req types.GenerateRequest) session.Request {
	sr := session.Request{
		Prompt:        req.Prompt,
		MaxTokens:     req.MaxTokens,
		Temperature:   float32(req.Temperature),
		TopP:          float32(req.TopP),
		TopK:          int32(req.TopK),
		RepeatPenalty: float32(req.RepeatPenalty),
		Stop:          req.Stop,
		Seed:          req.Seed,
	}
	if sr.MaxTokens == 0 {
		sr.MaxTokens = m.sampling.maxTokens
	}
	if sr.Temperature == 0 {
		sr.Temperature = m.sampling.temperature
	}
	if sr.TopP == 0 {
		sr.TopP = m.sampling.topP
	}
	if sr.TopK == 0 {
		sr.TopK = m.sampling.topK
	}
	if sr.RepeatPenalty == 0 {
		sr.RepeatPenalty = m.sampling.repeatPenalty
	}
	return sr
}

func statsFromSession(s session.Stats) types.GenerationStats {
	return types.GenerationStats{
		TokensGenerated:    s.TokensGenerated,
		PromptTokens:       s.PromptTokens,
		GenerationTimeMs:   s.Duration.Milliseconds(),
		TimeToFirstTokenMs: s.TimeToFirstToken.Milliseconds(),
		TokensPerSecond:    s.TokensPerSecond(),
		FinishReason:       string(s.FinishReason),
	}
}

// doneLine is the final NDJSON line of every generate response.
type doneLine struct {
	Done    bool   `json:"done"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	types.GenerationStats
}

// fragmentLineJSON formats one {"fragment":...} NDJSON line.
func fragmentLineJSON(frag string) []byte {
	type fragmentMsg struct {
		Fragment string `json:"fragment"`
	}
	b, _ := json.Marshal(fragmentMsg{Fragment: frag})
	return append(b, '\n')
}

// writeResult emits the closing NDJSON of a generation: for streamed cache
// hits the whole text goes out as a single fragment first, then the done
// line in every case.
func writeResult(w io.Writer, flusher func(), stream bool, modelID string, res session.Result, cached bool) error {
	if stream && cached && res.Text != "" {
		if _, err := w.Write(fragmentLineJSON(res.Text)); err != nil {
			return err
		}
		if flusher != nil {
			flusher()
		}
	}
	line := doneLine{
		Done:            true,
		Content:         res.Text,
		Model:           modelID,
		Cached:          cached,
		GenerationStats: statsFromSession(res.Stats),
	}
	b, err := json.Marshal(line)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	if flusher != nil {
		flusher()
	}
	return nil
}
