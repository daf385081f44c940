package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts p and fills in its generated id.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	res := r.db.WithContext(ctx).Omit("User").Create(p)
	if res.Error != nil {
		return translate(res.Error, "failed to create post", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeQuery, "failed to create post").WithDetails("no rows written")
	}
	return nil
}

// CreateWithTags inserts p and links it to tagIDs in one transaction. An
// unknown tag id yields apperr.ErrTagNotFound and nothing is written.
func (r *PostRepository) CreateWithTags(ctx context.Context, p *models.Post, tagIDs []string) error {
	return inTx(ctx, r.db, "failed to create post", func(tx *gorm.DB) error {
		if len(tagIDs) > 0 {
			var found int64
			if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&found).Error; err != nil {
				return translate(err, "failed to check tags", nil, nil)
			}
			if found != int64(len(tagIDs)) {
				return apperr.ErrTagNotFound
			}
		}

		res := tx.Omit("User").Create(p)
		if res.Error != nil {
			return translate(res.Error, "failed to create post", nil, nil)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeQuery, "failed to create post").WithDetails("no rows written")
		}

		for _, tagID := range tagIDs {
			if err := tx.Create(&models.PostTag{PostID: p.ID, TagID: tagID}).Error; err != nil {
				return translate(err, "failed to link tag", nil, apperr.ErrTagAlreadyLinked)
			}
		}
		return nil
	})
}

// Update rewrites the editable fields of p. The predicate matches on both
// id and owner, so a post owned by someone else is reported as not found.
func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Updates(map[string]any{
			"title":        p.Title,
			"content":      p.Content,
			"status":       p.Status,
			"published_at": p.PublishedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error, "failed to update post", nil, nil)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrPostNotFound
	}
	return nil
}

// Delete removes an owned post together with its comments, reviews and tag
// links.
func (r *PostRepository) Delete(ctx context.Context, postID, ownerID string) error {
	return inTx(ctx, r.db, "failed to delete post", func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Post{}).Where("id = ? AND user_id = ?", postID, ownerID).Count(&owned).Error; err != nil {
			return translate(err, "failed to delete post", nil, nil)
		}
		if owned == 0 {
			return apperr.ErrPostNotFound
		}

		for _, child := range []any{&models.Comment{}, &models.Review{}, &models.PostTag{}} {
			if err := tx.Where("post_id = ?", postID).Delete(child).Error; err != nil {
				return translate(err, "failed to delete post", nil, nil)
			}
		}

		res := tx.Where("id = ? AND user_id = ?", postID, ownerID).Delete(&models.Post{})
		if res.Error != nil {
			return translate(res.Error, "failed to delete post", nil, nil)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrPostNotFound
		}
		return nil
	})
}

// Get loads a post by id regardless of owner or status.
func (r *PostRepository) Get(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Preload("User").First(&p, "id = ?", postID).Error
	if err != nil {
		return nil, translate(err, "failed to get post", apperr.ErrPostNotFound, nil)
	}
	if err := r.decorate(ctx, []*models.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOwned loads a post only if ownerID owns it.
func (r *PostRepository) GetOwned(ctx context.Context, postID, ownerID string) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Where("id = ? AND user_id = ?", postID, ownerID).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "failed to get post", apperr.ErrPostNotFound, nil)
	}
	if err := r.decorate(ctx, []*models.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublished returns every published post, newest first.
func (r *PostRepository) ListPublished(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Where("status = ?", models.StatusPublished).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to load posts", nil, nil)
	}
	if err := r.decorate(ctx, ptrs(posts)); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByOwner returns all of a user's posts in any status.
func (r *PostRepository) ListByOwner(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to load posts", nil, nil)
	}
	if err := r.decorate(ctx, ptrs(posts)); err != nil {
		return nil, err
	}
	return posts, nil
}

// decorate fills author names and comment counts.
func (r *PostRepository) decorate(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		p.Author = p.User.DisplayName()
	}

	// One grouped count for the whole batch.
	type countResult struct {
		PostID string
		Count  int
	}
	var results []countResult
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return translate(err, "failed to count comments", nil, nil)
	}

	countMap := make(map[string]int, len(results))
	for _, c := range results {
		countMap[c.PostID] = c.Count
	}
	for _, p := range posts {
		p.CommentCount = countMap[p.ID]
	}
	return nil
}

func ptrs(posts []models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i := range posts {
		out[i] = &posts[i]
	}
	return out
}
