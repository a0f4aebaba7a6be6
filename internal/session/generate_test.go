package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inferd/internal/engine"
	"inferd/internal/engine/enginetest"
)

func TestGenerateUntilEOG(t *testing.T) {
	fake := enginetest.New("Hello", " world")
	s := newLoaded(t, fake, LoadParams{ContextSize: 512, Threads: 4, BatchSize: 512})

	res, err := s.Generate(context.Background(), Request{
		Prompt:      "Hello",
		MaxTokens:   5,
		Temperature: 0.8,
		TopP:        0.9,
		TopK:        40,
	}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "Hello world" {
		t.Fatalf("expected %q got %q", "Hello world", res.Text)
	}
	if res.Stats.TokensGenerated != 2 {
		t.Fatalf("expected 2 tokens got %d", res.Stats.TokensGenerated)
	}
	if res.Stats.FinishReason != FinishStop {
		t.Fatalf("expected finish stop got %s", res.Stats.FinishReason)
	}
	if want := fake.PromptTokens("Hello"); res.Stats.PromptTokens != want {
		t.Fatalf("expected %d prompt tokens got %d", want, res.Stats.PromptTokens)
	}
	if res.Stats.Duration <= 0 {
		t.Fatalf("expected positive duration")
	}
	if s.Stats() != res.Stats {
		t.Fatalf("session stats diverge from result stats")
	}
	// batch and sampler are scoped to the call
	if fake.LiveBatches() != 0 || fake.LiveSamplers() != 0 {
		t.Fatalf("leaked batch/sampler: %d/%d", fake.LiveBatches(), fake.LiveSamplers())
	}
}

func TestGenerateMaxTokensZero(t *testing.T) {
	fake := enginetest.New("never")
	s := newLoaded(t, fake, LoadParams{})

	res, err := s.Generate(context.Background(), Request{Prompt: "hi there"}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "" || res.Stats.TokensGenerated != 0 {
		t.Fatalf("expected empty result, got %q (%d tokens)", res.Text, res.Stats.TokensGenerated)
	}
	if res.Stats.FinishReason != FinishLength {
		t.Fatalf("expected finish length got %s", res.Stats.FinishReason)
	}
	// only the prompt prefill ran
	if got := fake.DecodeCalls(); got != 1 {
		t.Fatalf("expected 1 decode call got %d", got)
	}
	if got := fake.SampleCalls(); got != 0 {
		t.Fatalf("expected 0 sample calls got %d", got)
	}
}

func TestGenerateHonorsTokenBudget(t *testing.T) {
	fake := enginetest.New("a", "b", "c", "d", "e", "f", "g", "h")
	s := newLoaded(t, fake, LoadParams{})

	res, err := s.Generate(context.Background(), Request{Prompt: "count up", MaxTokens: 4}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "abcd" {
		t.Fatalf("expected %q got %q", "abcd", res.Text)
	}
	if res.Stats.TokensGenerated != 4 || res.Stats.FinishReason != FinishLength {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}

	// prefill plus one decode per generated token
	sizes := fake.DecodedBatchSizes()
	if len(sizes) != 5 {
		t.Fatalf("expected 5 decode calls got %d", len(sizes))
	}
	if want := fake.PromptTokens("count up"); sizes[0] != want {
		t.Fatalf("expected prefill batch of %d got %d", want, sizes[0])
	}
	for i, n := range sizes[1:] {
		if n != 1 {
			t.Fatalf("expected single-token batch at decode %d, got %d", i+1, n)
		}
	}
}

func TestGeneratePartialResultOnDecodeFailure(t *testing.T) {
	fake := enginetest.New("a", "b", "c", "d", "e")
	// prefill is decode 1; fail the third loop decode
	fake.FailDecodeAt = 4
	s := newLoaded(t, fake, LoadParams{})

	res, err := s.Generate(context.Background(), Request{Prompt: "go", MaxTokens: 5}, nil)
	if err != nil {
		t.Fatalf("expected partial result, not error: %v", err)
	}
	if res.Text != "abc" {
		t.Fatalf("expected %q got %q", "abc", res.Text)
	}
	if res.Stats.TokensGenerated != 3 || res.Stats.FinishReason != FinishError {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if fake.LiveBatches() != 0 || fake.LiveSamplers() != 0 {
		t.Fatalf("leaked batch/sampler on failure path: %d/%d", fake.LiveBatches(), fake.LiveSamplers())
	}
}

func TestGeneratePrefillFailureReturnsError(t *testing.T) {
	fake := enginetest.New("a")
	fake.FailDecodeAt = 1
	s := newLoaded(t, fake, LoadParams{})

	_, err := s.Generate(context.Background(), Request{Prompt: "go", MaxTokens: 5}, nil)
	if err == nil || !engine.IsDecodeFailed(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}
	if s.Stats() != (Stats{}) {
		t.Fatalf("prefill failure mutated stats: %+v", s.Stats())
	}
	if fake.LiveBatches() != 0 || fake.LiveSamplers() != 0 {
		t.Fatalf("leaked handles: %d batches %d samplers", fake.LiveBatches(), fake.LiveSamplers())
	}
}

func TestGenerateTokenizeFailureKeepsPreviousStats(t *testing.T) {
	fake := enginetest.New("x", "y")
	s := newLoaded(t, fake, LoadParams{})

	res, err := s.Generate(context.Background(), Request{Prompt: "warm up", MaxTokens: 5}, nil)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	fake.FailTokenize = true
	if _, err := s.Generate(context.Background(), Request{Prompt: "again", MaxTokens: 5}, nil); err == nil || !engine.IsTokenizeFailed(err) {
		t.Fatalf("expected tokenize failure, got %v", err)
	}
	if s.Stats() != res.Stats {
		t.Fatalf("tokenize failure mutated stats: %+v", s.Stats())
	}
}

func TestGeneratePromptLargerThanContextFails(t *testing.T) {
	fake := enginetest.New("x")
	s := newLoaded(t, fake, LoadParams{ContextSize: 4})

	_, err := s.Generate(context.Background(), Request{Prompt: "one two three four five six", MaxTokens: 1}, nil)
	if err == nil || !engine.IsTokenizeFailed(err) {
		t.Fatalf("expected tokenize failure for oversized prompt, got %v", err)
	}
}

func TestGenerateStopsAtContextWindow(t *testing.T) {
	fake := enginetest.New("a", "b", "c", "d", "e", "f")
	// prompt takes 2 positions (1 word + BOS), window of 4 leaves room to
	// decode at positions 2 and 3 only
	s := newLoaded(t, fake, LoadParams{ContextSize: 4})

	res, err := s.Generate(context.Background(), Request{Prompt: "go", MaxTokens: 10}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Stats.FinishReason != FinishLength {
		t.Fatalf("expected finish length got %s", res.Stats.FinishReason)
	}
	if res.Stats.TokensGenerated != 3 {
		t.Fatalf("expected 3 tokens got %d", res.Stats.TokensGenerated)
	}
	if got := fake.DecodeCalls(); got != 3 {
		t.Fatalf("expected 3 decode calls got %d", got)
	}
}

func TestGenerateStreamsFragments(t *testing.T) {
	fake := enginetest.New("one ", "two ", "three")
	s := newLoaded(t, fake, LoadParams{})

	var got []string
	res, err := s.Generate(context.Background(), Request{Prompt: "list", MaxTokens: 10}, func(f string) error {
		got = append(got, f)
		return nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(got, "") != res.Text {
		t.Fatalf("streamed %q but result is %q", strings.Join(got, ""), res.Text)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fragments got %d: %q", len(got), got)
	}
}

func TestGenerateStopSequenceTrimsResult(t *testing.T) {
	fake := enginetest.New("Hello", " wor", "ld", "!")
	s := newLoaded(t, fake, LoadParams{})

	var streamed []string
	res, err := s.Generate(context.Background(), Request{
		Prompt:    "greet",
		MaxTokens: 10,
		Stop:      []string{"world"},
	}, func(f string) error {
		streamed = append(streamed, f)
		return nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "Hello " {
		t.Fatalf("expected %q got %q", "Hello ", res.Text)
	}
	if res.Stats.FinishReason != FinishStop {
		t.Fatalf("expected finish stop got %s", res.Stats.FinishReason)
	}
	// the matched sequence never reaches the stream
	joined := strings.Join(streamed, "")
	if joined != res.Text {
		t.Fatalf("streamed %q but result is %q", joined, res.Text)
	}
	if strings.Contains(joined, "world") {
		t.Fatalf("stop sequence leaked into stream: %q", joined)
	}
}

func TestGenerateStopHoldbackFlushedAtEnd(t *testing.T) {
	// "X" is a prefix of the stop sequence, so it is withheld while
	// generation runs, then flushed when the script ends without a match.
	fake := enginetest.New("a", "X")
	s := newLoaded(t, fake, LoadParams{})

	var streamed []string
	res, err := s.Generate(context.Background(), Request{
		Prompt:    "go",
		MaxTokens: 10,
		Stop:      []string{"XY"},
	}, func(f string) error {
		streamed = append(streamed, f)
		return nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "aX" {
		t.Fatalf("expected %q got %q", "aX", res.Text)
	}
	if got := strings.Join(streamed, ""); got != "aX" {
		t.Fatalf("expected flushed stream %q got %q", "aX", got)
	}
}

func TestGenerateCancelledBeforeFirstToken(t *testing.T) {
	fake := enginetest.New("a", "b")
	s := newLoaded(t, fake, LoadParams{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Generate(ctx, Request{Prompt: "go", MaxTokens: 5}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Stats.FinishReason != FinishCancelled {
		t.Fatalf("expected finish cancelled got %s", res.Stats.FinishReason)
	}
	if res.Text != "" || res.Stats.TokensGenerated != 0 {
		t.Fatalf("expected empty result, got %q", res.Text)
	}
}

func TestGenerateCancelledMidStream(t *testing.T) {
	fake := enginetest.New("a", "b", "c", "d")
	s := newLoaded(t, fake, LoadParams{})

	ctx, cancel := context.WithCancel(context.Background())
	res, err := s.Generate(ctx, Request{Prompt: "go", MaxTokens: 10}, func(string) error {
		cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Stats.FinishReason != FinishCancelled {
		t.Fatalf("expected finish cancelled got %s", res.Stats.FinishReason)
	}
	if res.Stats.TokensGenerated != 1 {
		t.Fatalf("expected 1 token before cancellation, got %d", res.Stats.TokensGenerated)
	}
}

func TestGenerateCallbackErrorAborts(t *testing.T) {
	fake := enginetest.New("a", "b")
	s := newLoaded(t, fake, LoadParams{})

	sentinel := errors.New("client went away")
	_, err := s.Generate(context.Background(), Request{Prompt: "go", MaxTokens: 5}, func(string) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if s.Stats() != (Stats{}) {
		t.Fatalf("aborted generate mutated stats: %+v", s.Stats())
	}
	if fake.LiveBatches() != 0 || fake.LiveSamplers() != 0 {
		t.Fatalf("leaked handles on abort: %d/%d", fake.LiveBatches(), fake.LiveSamplers())
	}
}

func TestGenerateSamplerParamsPassThrough(t *testing.T) {
	fake := enginetest.New("a")
	s := newLoaded(t, fake, LoadParams{})

	_, err := s.Generate(context.Background(), Request{
		Prompt:        "go",
		MaxTokens:     1,
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		RepeatPenalty: 1.1,
		Seed:          42,
	}, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sp := fake.LastSamplerParams()
	if sp.Temperature != 0.7 || sp.TopP != 0.9 || sp.TopK != 40 || sp.RepeatPenalty != 1.1 {
		t.Fatalf("unexpected sampler params: %+v", sp)
	}
	if sp.Seed != 42 {
		t.Fatalf("expected pinned seed 42 got %d", sp.Seed)
	}
}

func TestTokensPerSecond(t *testing.T) {
	s := Stats{}
	if s.TokensPerSecond() != 0 {
		t.Fatalf("expected 0 for zero stats")
	}
	s = Stats{TokensGenerated: 10, Duration: 2e9}
	if got := s.TokensPerSecond(); got != 5 {
		t.Fatalf("expected 5 tok/s got %v", got)
	}
}
