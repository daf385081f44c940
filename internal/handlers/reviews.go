package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogdeck/internal/middleware"
	"blogdeck/internal/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
	feed    FeedCache
}

func NewReviewHandler(reviews *services.ReviewService, feed FeedCache) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, feed: feed}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

// List returns a post's reviews with their average.
func (h *ReviewHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	reviews, err := h.reviews.ListForPost(ctx, postID, middleware.Actor(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	avg, err := h.feed.AverageRating(ctx, postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "average_rating": avg})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	review, err := h.reviews.Create(ctx, c.Param("id"), user.ID, req.Rating, req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req reviewRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	if err := h.reviews.Update(ctx, c.Param("id"), user.ID, req.Rating, req.Message); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}

// Delete is allowed for the review's author and the reviewed post's owner.
func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.reviews.Delete(ctx, c.Param("id"), middleware.Actor(c)); err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(ctx)
	c.Status(http.StatusNoContent)
}
