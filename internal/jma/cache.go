package jma

import (
	"log/slog"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// PayloadCache is an in-memory payload cache keyed by area code with a TTL
// measured from write time. Entries are stored zstd-compressed; provider
// payloads are large, repetitive JSON and compress well.
//
// The cache implements types.PayloadCache. Load never errors: expired or
// unreadable entries are treated as absent. Save is an idempotent overwrite,
// so a race between two near-simultaneous fetches for the same area is
// harmless. The mutex only guards map integrity.
type PayloadCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	logger  *slog.Logger

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// nowFn allows tests to control the clock.
	nowFn func() time.Time
}

type cacheEntry struct {
	compressed []byte
	writtenAt  time.Time
}

// NewPayloadCache creates a PayloadCache with the given TTL.
func NewPayloadCache(ttl time.Duration, logger *slog.Logger) *PayloadCache {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		// Cannot fail with nil writer and default options.
		panic("jma: failed to create zstd encoder: " + err.Error())
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic("jma: failed to create zstd decoder: " + err.Error())
	}

	return &PayloadCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		logger:  logger,
		encoder: enc,
		decoder: dec,
		nowFn:   time.Now,
	}
}

// Load returns the cached raw payload for an area code, or nil when the
// entry is absent, older than the TTL, or cannot be decompressed.
func (c *PayloadCache) Load(areaCode string) []byte {
	c.mu.RLock()
	entry, ok := c.entries[areaCode]
	c.mu.RUnlock()

	if !ok {
		return nil
	}
	if c.nowFn().Sub(entry.writtenAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a fresher write may have landed.
		if e, still := c.entries[areaCode]; still && c.nowFn().Sub(e.writtenAt) > c.ttl {
			delete(c.entries, areaCode)
		}
		c.mu.Unlock()
		return nil
	}

	payload, err := c.decoder.DecodeAll(entry.compressed, nil)
	if err != nil {
		c.logger.Warn("discarding undecodable cache entry",
			"area_code", areaCode,
			"error", err,
		)
		c.mu.Lock()
		delete(c.entries, areaCode)
		c.mu.Unlock()
		return nil
	}
	return payload
}

// Save stores a raw payload for an area code, overwriting any prior entry.
// The TTL clock starts at this write.
func (c *PayloadCache) Save(areaCode string, payload []byte) {
	if areaCode == "" || len(payload) == 0 {
		return
	}

	compressed := c.encoder.EncodeAll(payload, nil)

	c.mu.Lock()
	c.entries[areaCode] = cacheEntry{
		compressed: compressed,
		writtenAt:  c.nowFn(),
	}
	c.mu.Unlock()
}

// Purge removes all expired entries. Intended for periodic housekeeping;
// correctness does not depend on it since Load checks expiry itself.
func (c *PayloadCache) Purge() int {
	now := c.nowFn()
	removed := 0

	c.mu.Lock()
	for code, entry := range c.entries {
		if now.Sub(entry.writtenAt) > c.ttl {
			delete(c.entries, code)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}
