package services

import (
	"context"
	"fmt"
	"strings"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type ReviewService struct {
	store ReviewStore
	posts PostStore
}

func NewReviewService(store ReviewStore, posts PostStore) *ReviewService {
	return &ReviewService{store: store, posts: posts}
}

// Create adds authorID's review of a post authorID can see. A second
// review of the same post by the same author yields apperr.ErrReviewExists.
func (s *ReviewService) Create(ctx context.Context, postID, authorID string, rating int, message string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := visiblePost(ctx, s.posts, postID, authorID); err != nil {
		return nil, err
	}

	r := &models.Review{
		PostID:  postID,
		UserID:  authorID,
		Rating:  rating,
		Message: strings.TrimSpace(message),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, r.ID)
}

// ListForPost returns the post's reviews, newest first. Reviews of a draft
// are only listed for its owner.
func (s *ReviewService) ListForPost(ctx context.Context, postID, viewerID string) ([]models.Review, error) {
	if _, err := visiblePost(ctx, s.posts, postID, viewerID); err != nil {
		return nil, err
	}
	return s.store.ListByPost(ctx, postID)
}

func (s *ReviewService) Get(ctx context.Context, reviewID string) (*models.Review, error) {
	return s.store.Get(ctx, reviewID)
}

// Update changes an authored review. Someone else's review is reported as
// apperr.ErrReviewNotFound.
func (s *ReviewService) Update(ctx context.Context, reviewID, authorID string, rating int, message string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	return s.store.Update(ctx, reviewID, authorID, rating, strings.TrimSpace(message))
}

// Delete removes a review. The actor must be the review's author or the
// owner of the reviewed post; anyone else gets apperr.ErrForbidden.
func (s *ReviewService) Delete(ctx context.Context, reviewID string, actor Actor) error {
	r, err := s.store.Get(ctx, reviewID)
	if err != nil {
		return err
	}

	if r.UserID != actor.UserID {
		post, err := s.posts.Get(ctx, r.PostID)
		if err != nil {
			return err
		}
		if post.UserID != actor.UserID {
			return apperr.ErrForbidden
		}
	}
	return s.store.Delete(ctx, reviewID)
}

// AverageRating is the mean rating of the post's reviews, or 0 without any.
func (s *ReviewService) AverageRating(ctx context.Context, postID string) (float64, error) {
	reviews, err := s.store.ListByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), nil
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return apperr.Invalid(fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	return nil
}
