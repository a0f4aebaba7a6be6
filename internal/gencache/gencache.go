// Package gencache caches completed generation results for deterministic
// requests so a repeated identical request can be answered without running
// the model again.
//
// Only requests with a fixed outcome are eligible: an explicit seed or
// greedy sampling (non-positive temperature). Keys are xxhash64 digests of the
// model path, the prompt and every sampling parameter. Entries expire
// after a TTL and the cache holds at most a fixed number of entries.
package gencache

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"

	"inferd/internal/session"
)

// Cache is a TTL and capacity bounded store of finished generation results.
type Cache struct {
	cache *ttlcache.Cache[uint64, session.Result]
}

// New creates a Cache whose entries expire after ttl and which holds at
// most capacity entries. The expiration loop runs until Close is called.
func New(ttl time.Duration, capacity uint64) *Cache {
	c := ttlcache.New[uint64, session.Result](
		ttlcache.WithTTL[uint64, session.Result](ttl),
		ttlcache.WithCapacity[uint64, session.Result](capacity),
		ttlcache.WithDisableTouchOnHit[uint64, session.Result](),
	)
	go c.Start()
	return &Cache{cache: c}
}

// Close stops the cache expiration loop.
func (c *Cache) Close() {
	c.cache.Stop()
}

// Cacheable reports whether a request has a deterministic outcome: the
// seed is pinned or sampling is greedy.
func Cacheable(req session.Request) bool {
	return req.Seed != 0 || req.Temperature <= 0
}

// Key digests the model path, the prompt and all sampling parameters into
// a cache key. Strings are length-prefixed so field boundaries survive
// concatenation.
func Key(modelPath string, req session.Request) uint64 {
	h := xxhash.New()
	writeString(h, modelPath)
	writeString(h, req.Prompt)
	writeUint64(h, uint64(req.MaxTokens))
	writeUint32(h, math.Float32bits(req.Temperature))
	writeUint32(h, math.Float32bits(req.TopP))
	writeUint32(h, uint32(req.TopK))
	writeUint32(h, math.Float32bits(req.RepeatPenalty))
	writeUint64(h, uint64(req.Seed))
	writeUint64(h, uint64(len(req.Stop)))
	for _, s := range req.Stop {
		writeString(h, s)
	}
	return h.Sum64()
}

// Get returns the cached result for key, if present and not expired.
func (c *Cache) Get(key uint64) (session.Result, bool) {
	item := c.cache.Get(key)
	if item == nil {
		return session.Result{}, false
	}
	return item.Value(), true
}

// Put stores a finished result under key. Results that did not run to a
// natural end are not stored.
func (c *Cache) Put(key uint64, res session.Result) {
	switch res.Stats.FinishReason {
	case session.FinishStop, session.FinishLength:
	default:
		return
	}
	c.cache.Set(key, res, ttlcache.DefaultTTL)
}

// Purge drops every entry. The owner calls this whenever the loaded model
// changes.
func (c *Cache) Purge() {
	c.cache.DeleteAll()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.cache.Len()
}

func writeString(h *xxhash.Digest, s string) {
	writeUint64(h, uint64(len(s)))
	h.WriteString(s)
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeUint32(h *xxhash.Digest, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.Write(buf[:])
}
