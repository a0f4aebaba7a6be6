package session

import (
	"math/rand"
	"time"
)

// Generation defaults. They are applied by callers (config resolution),
// never by Generate itself: a zero MaxTokens really means zero tokens.
const (
	DefaultMaxTokens     = 256
	DefaultTemperature   = 0.7
	DefaultTopP          = 0.9
	DefaultTopK          = 40
	DefaultRepeatPenalty = 1.1
)

// Request carries the parameters of one Generate call. The session treats it
// as read-only.
type Request struct {
	Prompt    string
	MaxTokens int

	Temperature   float32
	TopP          float32
	TopK          int32
	RepeatPenalty float32

	// Stop holds literal sequences that end generation when they appear in
	// the output. The matched sequence is trimmed from the result.
	Stop []string

	// Seed pins the sampler for reproducible output; 0 picks a random seed.
	Seed int64
}

// FinishReason explains why a generation ended.
type FinishReason string

const (
	// FinishStop: the model emitted an end-of-generation token or a stop
	// sequence matched.
	FinishStop FinishReason = "stop"
	// FinishLength: the token budget or context window was exhausted.
	FinishLength FinishReason = "length"
	// FinishError: a decode failed mid-generation; the result holds the
	// tokens produced before the failure.
	FinishError FinishReason = "error"
	// FinishCancelled: the caller's context was cancelled.
	FinishCancelled FinishReason = "cancelled"
)

// Stats describes one completed generation.
type Stats struct {
	TokensGenerated  int
	PromptTokens     int
	Duration         time.Duration
	TimeToFirstToken time.Duration
	FinishReason     FinishReason
}

// TokensPerSecond derives decode throughput; 0 when nothing was generated.
func (s Stats) TokensPerSecond() float64 {
	if s.TokensGenerated == 0 || s.Duration <= 0 {
		return 0
	}
	return float64(s.TokensGenerated) / s.Duration.Seconds()
}

// Result is the outcome of a successful (possibly partial) generation.
type Result struct {
	Text  string
	Stats Stats
}

// resolveSeed maps the request seed to the sampler seed, picking a random
// one when the caller did not pin it.
func resolveSeed(seed int64) uint32 {
	if seed != 0 {
		return uint32(seed)
	}
	return rand.Uint32()
}
