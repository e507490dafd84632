package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/service"
)

// DefaultCacheTTL bounds how stale a cached attendance read can be.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	expiry  time.Time
	records []model.AttendanceRecord
}

// RecordCache is a thread-safe TTL cache of attendance query results.
// Writers must call Invalidate after changing attendance rows.
type RecordCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// NewRecordCache creates a cache with the given TTL (DefaultCacheTTL when
// zero) and starts a janitor that drops expired entries every cleanupEvery.
// A zero cleanupEvery disables the janitor.
func NewRecordCache(ttl, cleanupEvery time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c := &RecordCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	if cleanupEvery > 0 {
		go c.cleanup(cleanupEvery)
	}

	return c
}

// Get returns a copy of the cached records for key if present and fresh.
func (c *RecordCache) Get(key string) ([]model.AttendanceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiry) {
		return nil, false
	}
	return cloneRecords(entry.records), true
}

// Set stores a copy of records under key.
func (c *RecordCache) Set(key string, records []model.AttendanceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		records: cloneRecords(records),
		expiry:  c.now().Add(c.ttl),
	}
}

// Invalidate drops every entry.
func (c *RecordCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries, expired or not.
func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the janitor. It is safe to call more than once.
func (c *RecordCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}

func (c *RecordCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *RecordCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

func cloneRecords(records []model.AttendanceRecord) []model.AttendanceRecord {
	if records == nil {
		return nil
	}
	out := make([]model.AttendanceRecord, len(records))
	copy(out, records)
	return out
}

// CachedReader serves attendance reads through a RecordCache.
type CachedReader struct {
	reader service.AttendanceReader
	cache  *RecordCache
}

// NewCachedReader wraps reader with cache.
func NewCachedReader(reader service.AttendanceReader, cache *RecordCache) *CachedReader {
	return &CachedReader{reader: reader, cache: cache}
}

// GetAttendance returns cached results when fresh, otherwise reads through.
func (r *CachedReader) GetAttendance(ctx context.Context, filter service.AttendanceFilter) ([]model.AttendanceRecord, error) {
	key := FilterKey(filter)
	if records, ok := r.cache.Get(key); ok {
		return records, nil
	}

	records, err := r.reader.GetAttendance(ctx, filter)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, records)
	return records, nil
}

// Invalidate clears the underlying cache.
func (r *CachedReader) Invalidate() {
	r.cache.Invalidate()
}

// FilterKey renders a stable cache key for filter. Builder order does not matter.
func FilterKey(filter service.AttendanceFilter) string {
	var b strings.Builder
	if filter.Range != nil {
		b.WriteString(filter.Range.String())
	}
	b.WriteByte('|')

	ids := append([]string(nil), filter.BuilderIDs...)
	sort.Strings(ids)
	b.WriteString(strings.Join(ids, ","))

	fmt.Fprintf(&b, "|%s|%d", filter.Status, filter.Limit)
	return b.String()
}
