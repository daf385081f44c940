// Package services holds the domain rules for posts, tags, comments, reviews
// and users. Persistence is delegated to the store interfaces below;
// errors from the stores are already typed (see apperr) and are returned
// unchanged.
package services

import (
	"context"

	"blogdeck/internal/models"
)

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	CreateWithTags(ctx context.Context, p *models.Post, tagIDs []string) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, postID, ownerID string) error
	Get(ctx context.Context, postID string) (*models.Post, error)
	GetOwned(ctx context.Context, postID, ownerID string) (*models.Post, error)
	ListPublished(ctx context.Context) ([]models.Post, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Post, error)
}

// TagStore persists tags and post-tag links.
type TagStore interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, tagID string) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	Link(ctx context.Context, postID, tagID string) error
	UnlinkAll(ctx context.Context, postID string) error
	Replace(ctx context.Context, postID string, tagIDs []string) error
	ForPost(ctx context.Context, postID string) ([]models.Tag, error)
	NamesByPost(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Get(ctx context.Context, commentID string) (*models.Comment, error)
	Update(ctx context.Context, commentID, authorID, content string) error
	Delete(ctx context.Context, commentID, authorID string) error
}

// ReviewStore persists reviews.
type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) error
	ListByPost(ctx context.Context, postID string) ([]models.Review, error)
	Get(ctx context.Context, reviewID string) (*models.Review, error)
	Update(ctx context.Context, reviewID, authorID string, rating int, message string) error
	Delete(ctx context.Context, reviewID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Actor is the authenticated user performing an action, as supplied by the
// session layer.
type Actor struct {
	UserID string
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
