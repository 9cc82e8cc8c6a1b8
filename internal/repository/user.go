package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourEmotion/goonrails/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Find(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Exists reports whether a user with id is stored.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Posts").Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
