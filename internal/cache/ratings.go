package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoItem struct {
	value     float64
	expiresAt time.Time
}

// ratingMemo is a size-bounded LRU of average ratings with a TTL. A nil
// memo is valid and never hits.
//
// Every purge starts a new generation. A value computed before a purge
// carries the old generation and is dropped by add.
type ratingMemo struct {
	lru *lru.Cache[string, memoItem]
	ttl time.Duration
	now func() time.Time

	mu  sync.Mutex
	gen uint64
}

func newRatingMemo(size int, ttl time.Duration) *ratingMemo {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	l, err := lru.New[string, memoItem](size)
	if err != nil {
		return nil
	}
	return &ratingMemo{lru: l, ttl: ttl, now: time.Now}
}

func (m *ratingMemo) get(postID string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	item, ok := m.lru.Get(postID)
	if !ok {
		return 0, false
	}
	if m.now().After(item.expiresAt) {
		m.lru.Remove(postID)
		return 0, false
	}
	return item.value, true
}

// generation returns the token to pass to add for a value computed from now on.
func (m *ratingMemo) generation() uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

func (m *ratingMemo) add(postID string, value float64, gen uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.lru.Add(postID, memoItem{value: value, expiresAt: m.now().Add(m.ttl)})
}

func (m *ratingMemo) purge() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.lru.Purge()
}
