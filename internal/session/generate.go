package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inferd/internal/engine"
)

// Generate runs one full generation: tokenize, prefill, then a sample/decode
// loop bounded by req.MaxTokens. Fragments are accumulated into the result
// and, when onFragment is non-nil, streamed to it as they are produced minus
// any tail withheld for stop-sequence matching. A decode failure after the
// first token ends the generation with the partial result and FinishError
// rather than an error. Failures before generation starts (no model,
// tokenize, prompt prefill) return an error and leave Stats untouched.
//
// Generation ends early when ctx is cancelled; the partial result is
// returned with FinishCancelled.
func (s *Session) Generate(ctx context.Context, req Request, onFragment func(string) error) (Result, error) {
	if !s.Loaded() {
		return Result{}, ErrNotLoaded()
	}
	start := time.Now()

	prompt, err := s.model.Tokenize(req.Prompt, s.params.ContextSize, true, false)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize prompt: %w", err)
	}

	// The context is reused across calls; drop the previous request's state.
	s.ctx.ClearCache()

	batch := s.ctx.NewBatch(s.params.ContextSize)
	defer batch.Close()

	for i, t := range prompt {
		batch.Add(t, int32(i), i == len(prompt)-1)
	}
	if err := s.ctx.Decode(batch); err != nil {
		return Result{}, fmt.Errorf("prefill decode: %w", err)
	}

	sampler := s.ctx.NewSampler(engine.SamplerParams{
		TopK:          req.TopK,
		TopP:          req.TopP,
		Temperature:   req.Temperature,
		RepeatPenalty: req.RepeatPenalty,
		Seed:          resolveSeed(req.Seed),
	})
	defer sampler.Close()

	send := func(fragment string) error {
		if onFragment == nil || fragment == "" {
			return nil
		}
		return onFragment(fragment)
	}

	var (
		text    strings.Builder
		matcher = newStopMatcher(req.Stop)
		emitted int
		count   int
		curPos  = len(prompt)
		ttft    time.Duration
		finish  = FinishLength
		truncAt = -1
	)

loop:
	for i := 0; i < req.MaxTokens; i++ {
		select {
		case <-ctx.Done():
			finish = FinishCancelled
			break loop
		default:
		}

		tok := sampler.Sample(-1)
		if count == 0 {
			ttft = time.Since(start)
		}
		if s.model.IsEOG(tok) {
			finish = FinishStop
			break
		}

		if piece := s.model.Piece(tok); piece != "" {
			text.WriteString(piece)
			count++
			total := text.String()
			if matcher != nil {
				if at, ok := matcher.findStop(total, len(piece)); ok {
					truncAt = at
					finish = FinishStop
					break
				}
				if safe := len(total) - matcher.holdLen(total); safe > emitted {
					if err := send(total[emitted:safe]); err != nil {
						return Result{}, err
					}
					emitted = safe
				}
			} else {
				if err := send(piece); err != nil {
					return Result{}, err
				}
				emitted = len(total)
			}
		}

		// No room left in the context window for another position.
		if curPos >= s.params.ContextSize {
			break
		}
		batch.Clear()
		batch.Add(tok, int32(curPos), true)
		curPos++
		if err := s.ctx.Decode(batch); err != nil {
			s.log.Warn().Err(err).Int("tokens", count).Msg("decode failed mid-generation")
			finish = FinishError
			break
		}
	}

	out := text.String()
	if truncAt >= 0 {
		out = out[:truncAt]
	}
	if len(out) > emitted {
		if err := send(out[emitted:]); err != nil {
			return Result{}, err
		}
	}

	s.stats = Stats{
		TokensGenerated:  count,
		PromptTokens:     len(prompt),
		Duration:         time.Since(start),
		TimeToFirstToken: ttft,
		FinishReason:     finish,
	}
	s.log.Debug().
		Int("prompt_tokens", len(prompt)).
		Int("tokens", count).
		Str("finish", string(finish)).
		Dur("took", s.stats.Duration).
		Msg("generation complete")
	return Result{Text: out, Stats: s.stats}, nil
}
