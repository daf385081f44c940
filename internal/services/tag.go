package services

import (
	"context"
	"strings"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

const maxTagNameLen = 64

// TagService manages the tag catalog and post-tag links.
type TagService struct {
	store TagStore
}

func NewTagService(store TagStore) *TagService {
	return &TagService{store: store}
}

// Create adds a tag. A name that is already taken yields apperr.ErrTagExists.
func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("tag name is required")
	}
	if len([]rune(name)) > maxTagNameLen {
		return nil, apperr.Invalid("tag name is too long")
	}

	tag := &models.Tag{Name: name}
	if err := s.store.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.List(ctx)
}

func (s *TagService) Get(ctx context.Context, tagID string) (*models.Tag, error) {
	return s.store.Get(ctx, tagID)
}

func (s *TagService) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.store.GetByName(ctx, strings.TrimSpace(name))
}

func (s *TagService) LinkToPost(ctx context.Context, postID, tagID string) error {
	return s.store.Link(ctx, postID, tagID)
}

func (s *TagService) UnlinkAllFromPost(ctx context.Context, postID string) error {
	return s.store.UnlinkAll(ctx, postID)
}

// ReplacePostTags sets the post's tags to exactly tagIDs. Duplicates are
// ignored; an unknown tag id fails the whole call before anything changes.
func (s *TagService) ReplacePostTags(ctx context.Context, postID string, tagIDs []string) error {
	unique := dedupe(tagIDs)
	for _, id := range unique {
		if _, err := s.store.Get(ctx, id); err != nil {
			return err
		}
	}
	return s.store.Replace(ctx, postID, unique)
}

// TagsForPost returns the post's tags ordered by name.
func (s *TagService) TagsForPost(ctx context.Context, postID string) ([]models.Tag, error) {
	return s.store.ForPost(ctx, postID)
}

// TagNamesByPost resolves tag names for a batch of posts.
func (s *TagService) TagNamesByPost(ctx context.Context, postIDs []string) (map[string][]string, error) {
	return s.store.NamesByPost(ctx, postIDs)
}
