package manager

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then the single session slot.
// Returns a release func to be deferred.
func (m *Manager) beginGeneration(ctx context.Context) (func(), error) {
	m.mu.RLock()
	draining := m.state == StateDraining
	m.mu.RUnlock()
	// If draining, reject new work to allow graceful shutdown/unload
	if draining {
		return func() {}, tooBusyError{reason: "draining"}
	}

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	// Try to reserve a queue slot with timeout
	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case m.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "queue full"}
	}

	// Wait to acquire the single session slot
	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	// Check for cancellation again before blocking on the session slot
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(m.maxWait)
	defer timer2.Stop()
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		m.mu.Lock()
		m.lastUsed = time.Now()
		m.mu.Unlock()
		return func() { <-m.genCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{reason: "generation timeout"}
	}
}

// acquireExclusive flips the manager into draining, waits for queued and
// in-flight work to finish, and takes the session slot. On success the
// caller owns the session until it runs the returned release func, and is
// responsible for setting a terminal state before releasing.
func (m *Manager) acquireExclusive(ctx context.Context) (func(), error) {
	m.mu.Lock()
	if m.state == StateDraining {
		m.mu.Unlock()
		return func() {}, tooBusyError{reason: "drain in progress"}
	}
	prev := m.state
	m.state = StateDraining
	m.mu.Unlock()

	restore := func() {
		m.mu.Lock()
		m.state = prev
		m.mu.Unlock()
	}

	deadline := time.Now().Add(m.drainTimeout)
	for {
		if len(m.genCh) == 0 && len(m.queueCh) == 0 {
			break
		}
		if time.Now().After(deadline) {
			restore()
			return func() {}, tooBusyError{reason: "drain timeout"}
		}
		select {
		case <-ctx.Done():
			restore()
			return func() {}, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	// New arrivals are rejected while draining, so the slot frees promptly;
	// the timer covers a racer that slipped in before the state change.
	timer := time.NewTimer(m.drainTimeout)
	defer timer.Stop()
	select {
	case m.genCh <- struct{}{}:
		return func() { <-m.genCh }, nil
	case <-ctx.Done():
		restore()
		return func() {}, ctx.Err()
	case <-timer.C:
		restore()
		return func() {}, tooBusyError{reason: "drain timeout"}
	}
}
