package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A second review of the same post by the same
// user violates idx_review_post_user and is reported as ErrReviewExists.
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	err := r.db.WithContext(ctx).Omit("Post", "User").Create(rv).Error
	if err != nil {
		return translate(err, "failed to create review", nil, apperr.ErrReviewExists)
	}
	return nil
}

// ListByPost returns a post's reviews, newest first.
func (r *ReviewRepository) ListByPost(ctx context.Context, postID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err, "failed to get reviews by post id", nil, nil)
	}
	for i := range reviews {
		reviews[i].Author = reviews[i].User.DisplayName()
	}
	return reviews, nil
}

func (r *ReviewRepository) Get(ctx context.Context, reviewID string) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&rv, "id = ?", reviewID).Error; err != nil {
		return nil, translate(err, "failed to get review", apperr.ErrReviewNotFound, nil)
	}
	rv.Author = rv.User.DisplayName()
	return &rv, nil
}

// Update changes rating and message. Only the author's row matches.
func (r *ReviewRepository) Update(ctx context.Context, reviewID, authorID string, rating int, message string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND user_id = ?", reviewID, authorID).
		Updates(map[string]any{"rating": rating, "message": message, "updated_at": time.Now()})
	if res.Error != nil {
		return translate(res.Error, "failed to update review", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrReviewNotFound
	}
	return nil
}

// Delete removes a review by id. Authorization is the caller's job.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", reviewID).Delete(&models.Review{})
	if res.Error != nil {
		return translate(res.Error, "failed to delete review", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrReviewNotFound
	}
	return nil
}
