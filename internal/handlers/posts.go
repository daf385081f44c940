package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogdeck/internal/cache"
	"blogdeck/internal/middleware"
	"blogdeck/internal/models"
	"blogdeck/internal/render"
	"blogdeck/internal/services"
)

type PostHandler struct {
	posts *services.PostService
	tags  *services.TagService
	feed  FeedCache
}

func NewPostHandler(posts *services.PostService, tags *services.TagService, feed FeedCache) *PostHandler {
	return &PostHandler{posts: posts, tags: tags, feed: feed}
}

type postRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Status  string   `json:"status"`
	TagIDs  []string `json:"tag_ids"`
}

type tagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

type postDetail struct {
	Post          any           `json:"post"`
	Tags          []string      `json:"tags"`
	HTML          template.HTML `json:"html"`
	AverageRating float64       `json:"average_rating"`
}

// List serves the public feed: GET /posts?q=&sort=
func (h *PostHandler) List(c *gin.Context) {
	key := cache.ParseSortKey(c.Query("sort"))
	entries := h.feed.QueryPublished(c.Request.Context(), c.Query("q"), key)
	c.JSON(http.StatusOK, gin.H{"posts": entries, "sort": key, "count": len(entries)})
}

// Detail serves a published post from the cache. Owners can also read
// their drafts.
func (h *PostHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	var detail postDetail
	if entry, ok := h.feed.LookupByID(postID); ok {
		detail = postDetail{Post: entry, Tags: entry.Tags, HTML: render.Markdown(entry.Content)}
	} else {
		user, signedIn := middleware.CurrentUser(c)
		if !signedIn {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		post, err := h.posts.GetOwned(ctx, postID, user.ID)
		if err != nil {
			fail(c, err)
			return
		}
		tags, err := h.tags.TagsForPost(ctx, post.ID)
		if err != nil {
			fail(c, err)
			return
		}
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		detail = postDetail{Post: post, Tags: names, HTML: render.Markdown(post.Content)}
	}

	avg, err := h.feed.AverageRating(ctx, postID)
	if err != nil {
		fail(c, err)
		return
	}
	detail.AverageRating = avg
	c.JSON(http.StatusOK, detail)
}

// Mine lists the signed-in user's posts in every status.
func (h *PostHandler) Mine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	posts, err := h.posts.ListOwnedBy(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	id, err := h.posts.CreateWithTags(ctx, &models.Post{
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Status:  models.PostStatus(req.Status),
	}, req.TagIDs)
	if err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	err := h.posts.Update(ctx, &models.Post{
		ID:      c.Param("id"),
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Status:  models.PostStatus(req.Status),
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	if err := h.posts.Delete(ctx, c.Param("id"), user.ID); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}

// SetTags replaces the tags of an owned post.
func (h *PostHandler) SetTags(c *gin.Context) {
	var req tagsRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	post, err := h.posts.GetOwned(ctx, c.Param("id"), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.tags.ReplacePostTags(ctx, post.ID, req.TagIDs); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}
