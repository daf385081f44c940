package cache

import (
	"strings"

	"golang.org/x/text/cases"
)

// searchKey holds the case-folded fields an entry is matched on.
type searchKey struct {
	title  string
	author string
	tags   []string
}

func newSearchKey(e Entry) searchKey {
	fold := cases.Fold()
	k := searchKey{
		title:  fold.String(e.Title),
		author: fold.String(e.Author),
		tags:   make([]string, len(e.Tags)),
	}
	for i, t := range e.Tags {
		k.tags[i] = fold.String(t)
	}
	return k
}

func (k searchKey) matches(q string) bool {
	if strings.Contains(k.title, q) || strings.Contains(k.author, q) {
		return true
	}
	for _, t := range k.tags {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

// Search returns the snapshot entries whose title, author or any tag name
// contains query, ignoring case. A blank query matches everything. Results
// keep snapshot order.
func (c *Cache) Search(query string) []Entry {
	q := strings.TrimSpace(query)
	if q == "" {
		return c.Published()
	}

	s := c.current.Load()
	if s == nil {
		return []Entry{}
	}
	q = cases.Fold().String(q)

	out := make([]Entry, 0)
	for i, k := range s.keys {
		if k.matches(q) {
			out = append(out, s.entries[i].clone())
		}
	}
	return out
}
