package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
)

// NormalizeStatus maps status text coming from clients ("Publish",
// "published", "PUBLISHED", ...) onto a PostStatus. Anything unrecognised
// is a draft.
func NormalizeStatus(s string) PostStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PUBLISHED", "PUBLISH":
		return StatusPublished
	default:
		return StatusDraft
	}
}

type Post struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Status      PostStatus `gorm:"type:varchar(16);not null;default:'DRAFT';index" json:"status"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"` // set iff Status is PUBLISHED
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Not columns; filled in by queries.
	Author       string `gorm:"-" json:"author"`
	CommentCount int    `gorm:"-" json:"comment_count"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}
