package session

import "strings"

// stopMatcher detects literal stop sequences in accumulated output. It also
// tells Generate how much of the tail to withhold from the streaming
// callback because it is a prefix of a stop sequence that the next piece
// could complete.
type stopMatcher struct {
	stops  []string
	maxLen int
}

// newStopMatcher builds a matcher from the given sequences. Empty sequences
// are dropped; returns nil when nothing remains so callers can skip checks.
func newStopMatcher(stops []string) *stopMatcher {
	m := &stopMatcher{}
	for _, s := range stops {
		if s == "" {
			continue
		}
		m.stops = append(m.stops, s)
		if len(s) > m.maxLen {
			m.maxLen = len(s)
		}
	}
	if len(m.stops) == 0 {
		return nil
	}
	return m
}

// findStop scans the region of text that the last appended piece (of the
// given byte length) could have completed a match in. It returns the byte
// offset where the earliest stop sequence begins.
func (m *stopMatcher) findStop(text string, appended int) (int, bool) {
	start := len(text) - appended - (m.maxLen - 1)
	if start < 0 {
		start = 0
	}
	window := text[start:]
	earliest := -1
	for _, s := range m.stops {
		if idx := strings.Index(window, s); idx >= 0 {
			if abs := start + idx; earliest < 0 || abs < earliest {
				earliest = abs
			}
		}
	}
	if earliest < 0 {
		return 0, false
	}
	return earliest, true
}

// holdLen reports how many tail bytes of text form a proper prefix of some
// stop sequence and must therefore not be emitted yet.
func (m *stopMatcher) holdLen(text string) int {
	hold := 0
	for _, s := range m.stops {
		limit := len(s) - 1
		if limit > len(text) {
			limit = len(text)
		}
		for l := limit; l > hold; l-- {
			if strings.HasSuffix(text, s[:l]) {
				hold = l
				break
			}
		}
	}
	return hold
}
