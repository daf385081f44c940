// Package testutil provides an in-memory record store and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"blogdeck/internal/config"
	"blogdeck/internal/db"
	"blogdeck/internal/models"
)

// NewDB opens a private in-memory sqlite database with the full schema.
//
// The pool is pinned to a single connection: every sqlite :memory:
// connection is its own database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.Database{
		Driver:       config.DriverSQLite,
		DSN:          "file::memory:?_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

// CreateUser inserts a user with an unusable password hash.
func CreateUser(t testing.TB, gdb *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	u := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// CreatePost inserts a post directly, bypassing the services. publishedAt is
// only applied to published posts.
func CreatePost(t testing.TB, gdb *gorm.DB, owner *models.User, title string, status models.PostStatus, publishedAt time.Time) *models.Post {
	t.Helper()

	p := &models.Post{
		UserID:  owner.ID,
		Title:   title,
		Content: "content of " + title,
		Status:  status,
	}
	if status == models.StatusPublished {
		ts := publishedAt
		p.PublishedAt = &ts
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return p
}

// CreateTag inserts a tag.
func CreateTag(t testing.TB, gdb *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name}
	if err := gdb.Create(tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

// LinkTag associates a tag with a post.
func LinkTag(t testing.TB, gdb *gorm.DB, post *models.Post, tag *models.Tag) {
	t.Helper()

	if err := gdb.Create(&models.PostTag{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
		t.Fatalf("link tag %s to post %s: %v", tag.Name, post.Title, err)
	}
}
