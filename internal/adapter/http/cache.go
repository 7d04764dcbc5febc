package http

import (
	"fmt"
	"sync"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
)

// scenarioCache is a thread-safe LRU cache for scenario projections. Keys
// include the snapshot timestamp, so a re-score naturally invalidates every
// cached projection.
type scenarioCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // most recently used
	tail       *cacheEntry // least recently used
}

type cacheEntry struct {
	key   string
	value []domain.ProjectedCounty
	prev  *cacheEntry
	next  *cacheEntry
}

func newScenarioCache(maxEntries int) *scenarioCache {
	return &scenarioCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

// scenarioKey builds the cache key from the scenario parameters and the
// snapshot they were projected against.
func scenarioKey(s domain.Scenario, scoredAt time.Time) string {
	return fmt.Sprintf("%.4f|%.4f|%d", s.TemperatureIncrease, s.PrecipitationChange, scoredAt.UnixNano())
}

func (c *scenarioCache) get(key string) ([]domain.ProjectedCounty, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *scenarioCache) put(key string, value []domain.ProjectedCounty) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *scenarioCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *scenarioCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *scenarioCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *scenarioCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
