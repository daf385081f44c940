package repository

import (
	"context"

	"gorm.io/gorm"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if err != nil {
		return translate(err, "failed to create tag", nil, apperr.ErrTagExists.WithDetails(tag.Name))
	}
	return nil
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, translate(err, "failed to load tags", nil, nil)
	}
	return tags, nil
}

func (r *TagRepository) Get(ctx context.Context, tagID string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error; err != nil {
		return nil, translate(err, "failed to get tag", apperr.ErrTagNotFound, nil)
	}
	return &tag, nil
}

func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error; err != nil {
		return nil, translate(err, "failed to get tag", apperr.ErrTagNotFound, nil)
	}
	return &tag, nil
}

func (r *TagRepository) Link(ctx context.Context, postID, tagID string) error {
	err := r.db.WithContext(ctx).Create(&models.PostTag{PostID: postID, TagID: tagID}).Error
	if err != nil {
		return translate(err, "failed to link tag", nil, apperr.ErrTagAlreadyLinked)
	}
	return nil
}

func (r *TagRepository) UnlinkAll(ctx context.Context, postID string) error {
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostTag{}).Error
	if err != nil {
		return translate(err, "failed to unlink tags", nil, nil)
	}
	return nil
}

// Replace drops every link of the post and links tagIDs in one transaction.
func (r *TagRepository) Replace(ctx context.Context, postID string, tagIDs []string) error {
	return inTx(ctx, r.db, "failed to replace post tags", func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return translate(err, "failed to unlink tags", nil, nil)
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.PostTag{PostID: postID, TagID: tagID}).Error; err != nil {
				return translate(err, "failed to link tag", nil, apperr.ErrTagAlreadyLinked)
			}
		}
		return nil
	})
}

// ForPost returns the tags linked to a post, alphabetically.
func (r *TagRepository) ForPost(ctx context.Context, postID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, translate(err, "failed to load post tags", nil, nil)
	}
	return tags, nil
}

// NamesByPost resolves tag names for many posts with a single query. Posts
// without tags are absent from the result.
func (r *TagRepository) NamesByPost(ctx context.Context, postIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(postIDs) == 0 {
		return out, nil
	}

	type row struct {
		PostID string
		Name   string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("post_tags").
		Select("post_tags.post_id AS post_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("post_tags.post_id, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to load post tags", nil, nil)
	}
	for _, rw := range rows {
		out[rw.PostID] = append(out[rw.PostID], rw.Name)
	}
	return out, nil
}
