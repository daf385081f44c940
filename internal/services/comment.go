package services

import (
	"context"
	"strings"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type CommentService struct {
	store CommentStore
	posts PostStore
}

func NewCommentService(store CommentStore, posts PostStore) *CommentService {
	return &CommentService{store: store, posts: posts}
}

// Create adds a comment by authorID to a post authorID can see: a
// published post or one of their own drafts.
func (s *CommentService) Create(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Invalid("comment text is required")
	}
	if _, err := visiblePost(ctx, s.posts, postID, authorID); err != nil {
		return nil, err
	}

	c := &models.Comment{PostID: postID, UserID: authorID, Content: content}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, c.ID)
}

// ListForPost returns the post's comments in posting order. viewerID may
// be empty for anonymous readers, who only see comments on published posts.
func (s *CommentService) ListForPost(ctx context.Context, postID, viewerID string) ([]models.Comment, error) {
	if _, err := visiblePost(ctx, s.posts, postID, viewerID); err != nil {
		return nil, err
	}
	return s.store.ListByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.store.Get(ctx, commentID)
}

// Edit replaces the comment text. Someone else's comment is reported as
// apperr.ErrCommentNotFound.
func (s *CommentService) Edit(ctx context.Context, commentID, authorID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return apperr.Invalid("comment text is required")
	}
	return s.store.Update(ctx, commentID, authorID, content)
}

// Delete removes a comment written by authorID.
func (s *CommentService) Delete(ctx context.Context, commentID, authorID string) error {
	return s.store.Delete(ctx, commentID, authorID)
}
