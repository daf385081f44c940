package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogdeck/internal/services"
)

type TagHandler struct {
	tags *services.TagService
	feed FeedCache
}

func NewTagHandler(tags *services.TagService, feed FeedCache) *TagHandler {
	return &TagHandler{tags: tags, feed: feed}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Create adds a tag to the catalog. Admin only.
func (h *TagHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !bind(c, &req) {
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	h.feed.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, tag)
}
