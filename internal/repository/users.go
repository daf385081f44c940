package repository

import (
	"context"

	"gorm.io/gorm"

	"blogdeck/internal/apperr"
	"blogdeck/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err, "failed to register user", nil, apperr.ErrEmailExists)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return nil, translate(err, "failed to get user", apperr.ErrUserNotFound, nil)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, "failed to get user", apperr.ErrUserNotFound, nil)
	}
	return &u, nil
}
