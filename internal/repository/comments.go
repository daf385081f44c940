package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	res := r.db.WithContext(ctx).Omit("Post", "User").Create(c)
	if res.Error != nil {
		return translate(res.Error, "failed to create comment", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeQuery, "failed to create comment").WithDetails("no rows written")
	}
	return nil
}

// ListByPost returns a post's comments, oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "failed to load comments", nil, nil)
	}
	for i := range comments {
		comments[i].Author = comments[i].User.DisplayName()
	}
	return comments, nil
}

func (r *CommentRepository) Get(ctx context.Context, commentID string) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, "id = ?", commentID).Error; err != nil {
		return nil, translate(err, "failed to get comment", apperr.ErrCommentNotFound, nil)
	}
	c.Author = c.User.DisplayName()
	return &c, nil
}

// Update edits a comment's text. Only the author's row matches.
func (r *CommentRepository) Update(ctx context.Context, commentID, authorID, content string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", commentID, authorID).
		Updates(map[string]any{"content": content, "updated_at": time.Now()})
	if res.Error != nil {
		return translate(res.Error, "failed to update comment", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment. Only the author's row matches.
func (r *CommentRepository) Delete(ctx context.Context, commentID, authorID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, authorID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return translate(res.Error, "failed to delete comment", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrCommentNotFound
	}
	return nil
}
