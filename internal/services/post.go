package services

import (
	"context"
	"strings"
	"time"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

// PostService owns the post lifecycle: status normalisation, the publish
// timestamp and ownership-checked edits.
type PostService struct {
	store PostStore
	now   func() time.Time
}

func NewPostService(store PostStore) *PostService {
	return &PostService{store: store, now: time.Now}
}

// Create stores a new post owned by p.UserID and returns its id.
func (s *PostService) Create(ctx context.Context, p *models.Post) (string, error) {
	if err := s.prepare(p); err != nil {
		return "", err
	}
	if err := s.store.Create(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// CreateWithTags stores a new post already linked to tagIDs. Either both
// the post and its links are written or neither is; an unknown tag id
// yields apperr.ErrTagNotFound.
func (s *PostService) CreateWithTags(ctx context.Context, p *models.Post, tagIDs []string) (string, error) {
	if err := s.prepare(p); err != nil {
		return "", err
	}
	if err := s.store.CreateWithTags(ctx, p, dedupe(tagIDs)); err != nil {
		p.ID = ""
		return "", err
	}
	return p.ID, nil
}

func (s *PostService) prepare(p *models.Post) error {
	if err := validatePost(p); err != nil {
		return err
	}
	p.Status = models.NormalizeStatus(string(p.Status))
	p.PublishedAt = nil
	if p.IsPublished() {
		ts := s.now()
		p.PublishedAt = &ts
	}
	return nil
}

// Update rewrites title, content and status of a post owned by p.UserID.
// A post that does not exist and a post owned by someone else both yield
// apperr.ErrPostNotFound.
//
// PublishedAt is kept when a published post stays published, set when a
// draft is published and cleared when a post goes back to draft.
func (s *PostService) Update(ctx context.Context, p *models.Post) error {
	if err := validatePost(p); err != nil {
		return err
	}
	current, err := s.store.GetOwned(ctx, p.ID, p.UserID)
	if err != nil {
		return err
	}

	p.Status = models.NormalizeStatus(string(p.Status))
	switch {
	case !p.IsPublished():
		p.PublishedAt = nil
	case current.IsPublished() && current.PublishedAt != nil:
		p.PublishedAt = current.PublishedAt
	default:
		ts := s.now()
		p.PublishedAt = &ts
	}

	return s.store.Update(ctx, p)
}

// Delete removes an owned post along with its comments, reviews and tag links.
func (s *PostService) Delete(ctx context.Context, postID, ownerID string) error {
	return s.store.Delete(ctx, postID, ownerID)
}

// GetOwned returns a post for an edit flow; ownerID must own it.
func (s *PostService) GetOwned(ctx context.Context, postID, ownerID string) (*models.Post, error) {
	return s.store.GetOwned(ctx, postID, ownerID)
}

// Get returns a post for read-only display, without an ownership check.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return s.store.Get(ctx, postID)
}

// ListPublished returns the public feed.
func (s *PostService) ListPublished(ctx context.Context) ([]models.Post, error) {
	return s.store.ListPublished(ctx)
}

// ListOwnedBy returns every post of userID in any status.
func (s *PostService) ListOwnedBy(ctx context.Context, userID string) ([]models.Post, error) {
	return s.store.ListByOwner(ctx, userID)
}

// visibleTo reports whether userID may see p: published posts are public,
// drafts only to their owner.
func visibleTo(p *models.Post, userID string) bool {
	return p.IsPublished() || (userID != "" && p.UserID == userID)
}

// visiblePost loads a post for userID. A draft of someone else is reported
// as apperr.ErrPostNotFound, like a missing post.
func visiblePost(ctx context.Context, posts PostStore, postID, userID string) (*models.Post, error) {
	p, err := posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(p, userID) {
		return nil, apperr.ErrPostNotFound
	}
	return p, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validatePost(p *models.Post) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return apperr.Invalid("title is required")
	}
	if p.UserID == "" {
		return apperr.Invalid("post owner is required")
	}
	return nil
}
