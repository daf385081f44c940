// Package cache is the read model of the public feed: an in-memory snapshot
// of every published post with its tag names, searched and sorted without
// going back to the database.
//
// A snapshot is never modified after it is published. Rebuilds assemble a
// new one privately and swap it in with a single atomic store, so readers
// see either the old snapshot or the new one. Everything handed out is a
// copy.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"blogdeck/internal/models"
	"blogdeck/internal/render"
)

// PostSource lists the posts that belong in the feed.
type PostSource interface {
	ListPublished(ctx context.Context) ([]models.Post, error)
}

// TagSource resolves tag names for a batch of posts.
type TagSource interface {
	TagNamesByPost(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// RatingSource computes a post's average review rating.
type RatingSource interface {
	AverageRating(ctx context.Context, postID string) (float64, error)
}

// Entry is the read copy of a published post.
type Entry struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Author       string            `json:"author"`
	Status       models.PostStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	PublishedAt  *time.Time        `json:"published_at"`
	CommentCount int               `json:"comment_count"`
	Tags         []string          `json:"tags"`
	Excerpt      string            `json:"excerpt"`
	CoverImage   string            `json:"cover_image,omitempty"`
}

func (e Entry) clone() Entry {
	out := e
	out.Tags = append(make([]string, 0, len(e.Tags)), e.Tags...)
	if e.PublishedAt != nil {
		ts := *e.PublishedAt
		out.PublishedAt = &ts
	}
	return out
}

type snapshot struct {
	entries []Entry
	keys    []searchKey // parallel to entries
	byID    map[string]int
	builtAt time.Time
}

const refreshKey = "refresh"

type Cache struct {
	posts   PostSource
	tags    TagSource
	ratings RatingSource
	log     *slog.Logger
	now     func() time.Time

	current atomic.Pointer[snapshot]
	stale   atomic.Bool

	// mu serialises rebuilds so snapshots are published in the order
	// their rebuilds started.
	mu    sync.Mutex
	group singleflight.Group

	memo *ratingMemo
}

type Option func(*Cache)

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRatingMemo keeps up to size average ratings for ttl. A size of zero
// or less disables the memo.
func WithRatingMemo(size int, ttl time.Duration) Option {
	return func(c *Cache) {
		c.memo = newRatingMemo(size, ttl)
	}
}

// WithClock replaces time.Now for snapshot and memo timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New returns an empty cache. It holds nothing until the first Refresh.
func New(posts PostSource, tags TagSource, ratings RatingSource, opts ...Option) *Cache {
	c := &Cache{
		posts:   posts,
		tags:    tags,
		ratings: ratings,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.memo != nil {
		c.memo.now = c.now
	}
	c.stale.Store(true)
	return c
}

// Refresh rebuilds the snapshot from the store. Concurrent calls share one
// rebuild. On failure the previous snapshot stays in place and the error is
// returned; callers that only want a best-effort read may ignore it.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do(refreshKey, func() (any, error) {
		return nil, c.rebuild(ctx)
	})
	return err
}

// Invalidate discards the snapshot and rebuilds it. It is called after a
// write has committed, so a failed rebuild is logged and never returned;
// the cache is left marked stale and the old snapshot keeps serving.
func (c *Cache) Invalidate(ctx context.Context) {
	c.stale.Store(true)
	// A refresh already in flight may have read the store before the
	// write; don't let this call join it.
	c.group.Forget(refreshKey)
	if err := c.Refresh(ctx); err != nil {
		c.log.Error("cache invalidation failed, serving previous snapshot",
			slog.String("error", err.Error()),
			slog.Time("snapshot_built_at", c.BuiltAt()),
		)
	}
}

// MarkStale flags the snapshot as out of date without rebuilding it.
func (c *Cache) MarkStale() {
	c.stale.Store(true)
}

// Stale reports whether the snapshot may be out of date: it was never
// built, was marked stale, or the last invalidation failed.
func (c *Cache) Stale() bool {
	return c.stale.Load()
}

// BuiltAt is when the current snapshot was built; zero if none yet.
func (c *Cache) BuiltAt() time.Time {
	if s := c.current.Load(); s != nil {
		return s.builtAt
	}
	return time.Time{}
}

// Len is the number of posts in the current snapshot.
func (c *Cache) Len() int {
	if s := c.current.Load(); s != nil {
		return len(s.entries)
	}
	return 0
}

// LookupByID returns the published post with id from the current snapshot.
// It never touches the store.
func (c *Cache) LookupByID(id string) (Entry, bool) {
	s := c.current.Load()
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i].clone(), true
}

// Published returns a copy of the snapshot in store order.
func (c *Cache) Published() []Entry {
	s := c.current.Load()
	if s == nil {
		return []Entry{}
	}
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// QueryPublished refreshes the snapshot, filters it by query and sorts the
// result by key. A failed refresh is logged and the previous snapshot is
// queried instead.
func (c *Cache) QueryPublished(ctx context.Context, query string, key SortKey) []Entry {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("cache refresh failed, querying previous snapshot",
			slog.String("error", err.Error()),
		)
	}
	out := c.Search(query)
	Sort(out, key)
	return out
}

// AverageRating returns the post's mean review rating, memoised until the
// next snapshot is published or the memo entry expires.
func (c *Cache) AverageRating(ctx context.Context, postID string) (float64, error) {
	if v, ok := c.memo.get(postID); ok {
		return v, nil
	}
	gen := c.memo.generation()
	avg, err := c.ratings.AverageRating(ctx, postID)
	if err != nil {
		return 0, err
	}
	c.memo.add(postID, avg, gen)
	return avg, nil
}

func (c *Cache) rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.now()
	posts, err := c.posts.ListPublished(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	names, err := c.tags.TagNamesByPost(ctx, ids)
	if err != nil {
		return err
	}

	next := &snapshot{
		entries: make([]Entry, 0, len(posts)),
		keys:    make([]searchKey, 0, len(posts)),
		byID:    make(map[string]int, len(posts)),
		builtAt: start,
	}
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		if _, dup := next.byID[p.ID]; dup {
			continue
		}
		e := newEntry(p, names[p.ID])
		next.byID[e.ID] = len(next.entries)
		next.entries = append(next.entries, e)
		next.keys = append(next.keys, newSearchKey(e))
	}

	c.current.Store(next)
	c.stale.Store(false)
	c.memo.purge()

	c.log.Debug("cache rebuilt",
		slog.Int("posts", len(next.entries)),
		slog.Duration("took", c.now().Sub(start)),
	)
	return nil
}

func newEntry(p models.Post, tags []string) Entry {
	excerpt, cover := render.Summary(p.Content, render.ExcerptLength)
	e := Entry{
		ID:           p.ID,
		OwnerID:      p.UserID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       p.Author,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		CommentCount: p.CommentCount,
		Tags:         append(make([]string, 0, len(tags)), tags...),
		Excerpt:      excerpt,
		CoverImage:   cover,
	}
	if e.Author == "" {
		e.Author = models.UnknownAuthor
	}
	if p.PublishedAt != nil {
		ts := *p.PublishedAt
		e.PublishedAt = &ts
	}
	return e
}
