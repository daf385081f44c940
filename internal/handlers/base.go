// Package handlers is the JSON presentation layer. Handlers call the
// services and, after every successful write, invalidate the feed cache.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogdeck/internal/apperr"
	"blogdeck/internal/cache"
)

// FeedCache is the read model the handlers query and invalidate.
type FeedCache interface {
	QueryPublished(ctx context.Context, query string, key cache.SortKey) []cache.Entry
	LookupByID(id string) (cache.Entry, bool)
	AverageRating(ctx context.Context, postID string) (float64, error)
	Invalidate(ctx context.Context)
}

// statusOf maps an error code to an HTTP status.
func statusOf(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAlreadyExists:
		return http.StatusConflict
	case apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodeConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error body. Storage and unknown errors are
// logged and reported without their internals.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusOf(err)

	var appErr *apperr.Error
	if status >= http.StatusInternalServerError || !errors.As(err, &appErr) {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status), "code": apperr.CodeOf(err)})
		return
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

// bind decodes the JSON body into dst, reporting malformed input as 400.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperr.Invalid("malformed request body").WithDetails(err.Error()))
		return false
	}
	return true
}
