// Package repository persists users and posts through gorm.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourEmotion/goonrails/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// All returns every post ordered by id.
func (r *PostRepository) All(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("id asc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Find(ctx context.Context, id int64) (*models.Post, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &post, nil
}

// ByUser returns the posts written by userID ordered by id.
func (r *PostRepository) ByUser(ctx context.Context, userID int64) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}
	return posts, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("User").Save(post).Error; err != nil {
		return fmt.Errorf("save post %d: %w", post.ID, err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
