package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogdeck/internal/cache"
	"blogdeck/internal/logger"
	"blogdeck/internal/models"
	"blogdeck/internal/repository"
	"blogdeck/internal/services"
	"blogdeck/internal/testutil"
)

func TestQueryPublished_EndToEnd(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)

	postRepo := repository.NewPostRepository(gdb)
	posts := services.NewPostService(postRepo)
	tags := services.NewTagService(repository.NewTagRepository(gdb))
	reviews := services.NewReviewService(repository.NewReviewRepository(gdb), postRepo)
	c := cache.New(posts, tags, reviews, cache.WithLogger(logger.Discard()), cache.WithRatingMemo(10, time.Minute))

	owner := testutil.CreateUser(t, gdb, "owner", models.RoleUser)
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	alpha := testutil.CreatePost(t, gdb, owner, "Alpha", models.StatusPublished, base)
	testutil.CreatePost(t, gdb, owner, "Zeta", models.StatusPublished, base.Add(time.Hour))
	testutil.CreatePost(t, gdb, owner, "Hidden draft", models.StatusDraft, time.Time{})

	travel := testutil.CreateTag(t, gdb, "travel")
	testutil.LinkTag(t, gdb, alpha, travel)

	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, []string{"Alpha", "Zeta"}, titles(c.QueryPublished(ctx, "", cache.SortTitleAsc)))

	id, err := posts.Create(ctx, &models.Post{UserID: owner.ID, Title: "Middle", Content: "m", Status: "Publish"})
	require.NoError(t, err)
	stored, err := posts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)

	_, ok := c.LookupByID(id)
	assert.False(t, ok, "not visible until the cache is invalidated")

	c.Invalidate(ctx)
	e, ok := c.LookupByID(id)
	require.True(t, ok)
	assert.Equal(t, "owner", e.Author)
	assert.Equal(t, []string{"Alpha", "Middle", "Zeta"}, titles(c.QueryPublished(ctx, "", cache.SortTitleAsc)))

	t.Run("search by tag", func(t *testing.T) {
		assert.Equal(t, []string{"Alpha"}, titles(c.QueryPublished(ctx, "TRAVEL", cache.DefaultSort)))
	})

	t.Run("drafts are absent", func(t *testing.T) {
		assert.Empty(t, c.QueryPublished(ctx, "hidden", cache.DefaultSort))
	})

	t.Run("unpublishing removes the entry", func(t *testing.T) {
		require.NoError(t, posts.Update(ctx, &models.Post{ID: id, UserID: owner.ID, Title: "Middle", Status: models.StatusDraft}))
		c.Invalidate(ctx)
		_, ok := c.LookupByID(id)
		assert.False(t, ok)
	})

	t.Run("average rating", func(t *testing.T) {
		reader := testutil.CreateUser(t, gdb, "reader", models.RoleUser)
		_, err := reviews.Create(ctx, alpha.ID, reader.ID, 3, "")
		require.NoError(t, err)
		_, err = reviews.Create(ctx, alpha.ID, owner.ID, 5, "")
		require.NoError(t, err)

		avg, err := c.AverageRating(ctx, alpha.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, avg, 1e-9)
	})
}

func titles(entries []cache.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
