package series

import (
	"container/list"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	"golang.org/x/sync/singleflight"
)

// cacheKey identifies one computed series. Slot is "now" truncated to the
// bucket step, so an entry stops matching once a new bucket opens.
type cacheKey struct {
	WidgetID    string
	Fingerprint string
	Period      aggregation.Period
	Slot        int64
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%d", k.WidgetID, k.Fingerprint, k.Period, k.Slot)
}

func slotFor(now time.Time, step time.Duration) int64 {
	return aggregation.TruncateToStep(now, step).UnixNano()
}

// Cache is a thread-safe LRU cache of computed series. Concurrent misses for
// the same key share a single computation.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]*list.Element
	order    *list.List
	group    singleflight.Group
}

type cacheEntry struct {
	key    cacheKey
	series *SeriesResponse
}

// NewCache creates a cache holding up to capacity series. A capacity <= 0
// returns nil, which disables caching.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		return nil
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[cacheKey]*list.Element),
		order:    list.New(),
	}
}

// Get returns a copy of the cached series, or nil.
func (c *Cache) Get(key cacheKey) *SeriesResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).series.clone()
}

// Put stores series under key, evicting the least recently used entry when full.
func (c *Cache) Put(key cacheKey, series *SeriesResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := series.clone()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).series = copied
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).key)
			c.order.Remove(oldest)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, series: copied})
}

// GetOrCompute returns the cached series for key or runs compute once for all
// concurrent callers. Errors are not cached.
func (c *Cache) GetOrCompute(key cacheKey, compute func() (*SeriesResponse, error)) (*SeriesResponse, error) {
	if cached := c.Get(key); cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if cached := c.Get(key); cached != nil {
			return cached, nil
		}
		series, err := compute()
		if err != nil {
			return nil, err
		}
		c.Put(key, series)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SeriesResponse).clone(), nil
}

// clone copies the response together with its points and window start.
func (r *SeriesResponse) clone() *SeriesResponse {
	copied := *r
	copied.Points = slices.Clone(r.Points)
	if r.WindowStart != nil {
		start := *r.WindowStart
		copied.WindowStart = &start
	}
	return &copied
}

// Len reports the number of cached series.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]*list.Element)
	c.order = list.New()
}
