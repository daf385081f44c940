package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogdeck/internal/middleware"
	"blogdeck/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
	feed     FeedCache
}

func NewCommentHandler(comments *services.CommentService, feed FeedCache) *CommentHandler {
	return &CommentHandler{comments: comments, feed: feed}
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.comments.ListForPost(c.Request.Context(), c.Param("id"), middleware.Actor(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	comment, err := h.comments.Create(ctx, c.Param("id"), user.ID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	// Comment counts are shown in the feed.
	h.feed.Invalidate(ctx)
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	if err := h.comments.Edit(ctx, c.Param("id"), user.ID, req.Content); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	if err := h.comments.Delete(ctx, c.Param("id"), user.ID); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}
