package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Search(t *testing.T) {
	tags := &fakeTags{names: map[string][]string{
		"p1": {"Programming"},
		"p3": {"Travel", "Europe"},
	}}
	c := newTestCache(t, &fakePosts{posts: fixturePosts()}, tags)
	require.NoError(t, c.Refresh(context.Background()))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank", "", []string{"p1", "p2", "p3"}},
		{"whitespace", "   \t", []string{"p1", "p2", "p3"}},
		{"title substring", "concur", []string{"p1"}},
		{"title any case", "BAKING", []string{"p2"}},
		{"author", "CAROL", []string{"p3"}},
		{"author lower case stored", "carol", []string{"p3"}},
		{"tag", "europ", []string{"p3"}},
		{"tag any case", "programming", []string{"p1"}},
		{"surrounding spaces", "  bread ", []string{"p2"}},
		{"matches several", "o", []string{"p1", "p2", "p3"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

// Every entry whose title, author or tag contains the query must be found.
func TestCache_SearchCompleteness(t *testing.T) {
	tags := &fakeTags{names: map[string][]string{"p1": {"golang"}, "p2": {"Food", "Home"}}}
	c := newTestCache(t, &fakePosts{posts: fixturePosts()}, tags)
	require.NoError(t, c.Refresh(context.Background()))

	for _, e := range c.Published() {
		fields := append([]string{e.Title, e.Author}, e.Tags...)
		for _, f := range fields {
			for _, q := range []string{f, strings.ToUpper(f), strings.ToLower(f), f[1:]} {
				found := false
				for _, got := range c.Search(q) {
					if got.ID == e.ID {
						found = true
					}
				}
				assert.True(t, found, "query %q should find %s", q, e.ID)
			}
		}
	}
}
