package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
	"blogdeck/internal/repository"
	"blogdeck/internal/testutil"
)

func TestPostRepository_DeleteCascades(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, gdb, "owner", models.RoleUser)
	reader := testutil.CreateUser(t, gdb, "reader", models.RoleUser)
	post := testutil.CreatePost(t, gdb, owner, "Doomed", models.StatusPublished, time.Now())
	tag := testutil.CreateTag(t, gdb, "go")
	testutil.LinkTag(t, gdb, post, tag)

	comments := repository.NewCommentRepository(gdb)
	reviews := repository.NewReviewRepository(gdb)
	posts := repository.NewPostRepository(gdb)
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: reader.ID, Content: "hi"}))
	require.NoError(t, reviews.Create(ctx, &models.Review{PostID: post.ID, UserID: reader.ID, Rating: 4}))

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := posts.Delete(ctx, post.ID, reader.ID)
		assert.ErrorIs(t, err, apperr.ErrPostNotFound)

		list, err := comments.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1, "children survive a rejected delete")
	})

	t.Run("owner delete removes children", func(t *testing.T) {
		require.NoError(t, posts.Delete(ctx, post.ID, owner.ID))

		for _, m := range []any{&models.Comment{}, &models.Review{}, &models.PostTag{}} {
			var n int64
			require.NoError(t, gdb.Model(m).Where("post_id = ?", post.ID).Count(&n).Error)
			assert.Zero(t, n)
		}
		_, err := posts.Get(ctx, post.ID)
		assert.ErrorIs(t, err, apperr.ErrPostNotFound)
	})
}

func TestPostRepository_DecoratesAuthorAndCommentCount(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, gdb, "ada", models.RoleUser)
	post := testutil.CreatePost(t, gdb, owner, "Counted", models.StatusPublished, time.Now())
	testutil.CreatePost(t, gdb, owner, "Hidden", models.StatusDraft, time.Time{})

	comments := repository.NewCommentRepository(gdb)
	for i := 0; i < 3; i++ {
		require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: owner.ID, Content: "c"}))
	}

	published, err := repository.NewPostRepository(gdb).ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "ada", published[0].Author)
	assert.Equal(t, 3, published[0].CommentCount)
}

func TestTagRepository_NamesByPost(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, gdb, "owner", models.RoleUser)
	p1 := testutil.CreatePost(t, gdb, owner, "One", models.StatusPublished, time.Now())
	p2 := testutil.CreatePost(t, gdb, owner, "Two", models.StatusPublished, time.Now())
	zig := testutil.CreateTag(t, gdb, "zig")
	golang := testutil.CreateTag(t, gdb, "go")
	testutil.LinkTag(t, gdb, p1, zig)
	testutil.LinkTag(t, gdb, p1, golang)

	names, err := repository.NewTagRepository(gdb).NamesByPost(ctx, []string{p1.ID, p2.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "zig"}, names[p1.ID])
	assert.NotContains(t, names, p2.ID)
}

func TestTagRepository_LinkTwice(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, gdb, "owner", models.RoleUser)
	post := testutil.CreatePost(t, gdb, owner, "One", models.StatusDraft, time.Time{})
	tag := testutil.CreateTag(t, gdb, "go")
	tags := repository.NewTagRepository(gdb)

	require.NoError(t, tags.Link(ctx, post.ID, tag.ID))
	err := tags.Link(ctx, post.ID, tag.ID)
	assert.ErrorIs(t, err, apperr.ErrTagAlreadyLinked)
}
