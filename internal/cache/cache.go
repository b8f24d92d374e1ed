package cache

import (
	"sort"
	"sync"
	"time"

	"metalprices/internal/quote"
)

// DefaultTTL is the freshness window quotes are served from memory for.
const DefaultTTL = 5 * time.Minute

// Key identifies one cached quote. Entries for different currencies of the
// same metal are independent.
type Key struct {
	Metal    string
	Currency string
}

func (k Key) String() string { return k.Metal + "_" + k.Currency }

type entry struct {
	q        quote.Quote
	storedAt time.Time
}

// Cache is a (metal, currency)-keyed quote store with lazy expiry: an entry
// older than the freshness window is simply not returned; nothing evicts in
// the background. The key space is four metals times a handful of
// currencies, so stale entries occupying memory is a non-issue.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[Key]entry

	// now is swappable for freshness-boundary tests.
	now func() time.Time
}

func New() *Cache {
	return &Cache{
		ttl:     DefaultTTL,
		entries: make(map[Key]entry),
		now:     time.Now,
	}
}

// Get returns the cached quote for (metal, currency) if its age is strictly
// under the freshness window. An entry aged exactly the window is expired.
func (c *Cache) Get(metalID, currency string) (quote.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[Key{metalID, currency}]
	if !ok {
		return quote.Quote{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return quote.Quote{}, false
	}
	return e.q, true
}

// Put stores q for (metal, currency), unconditionally replacing any previous
// entry with a fresh timestamp.
func (c *Cache) Put(metalID, currency string, q quote.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key{metalID, currency}] = entry{q: q, storedAt: c.now()}
}

// Invalidate removes entries. With both arguments it removes exactly one
// key; with only metalID it removes that metal across all currencies; with
// neither it clears everything.
func (c *Cache) Invalidate(metalID, currency string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case metalID != "" && currency != "":
		delete(c.entries, Key{metalID, currency})
	case metalID != "":
		for k := range c.entries {
			if k.Metal == metalID {
				delete(c.entries, k)
			}
		}
	default:
		c.entries = make(map[Key]entry)
	}
}

// Stats describes the cache contents for observability.
type Stats struct {
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return Stats{Count: len(keys), Keys: keys}
}

// SetTTL changes the freshness window for subsequent reads; existing entries
// are re-evaluated against the new window.
func (c *Cache) SetTTL(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = d
}

func (c *Cache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}
