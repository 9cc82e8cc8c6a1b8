package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourEmotion/goonrails/internal/cache"
	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/repository"
	"github.com/yourEmotion/goonrails/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound reports a missing post or user.
var ErrNotFound = repository.ErrNotFound

type BlogService struct {
	posts *repository.PostRepository
	users *repository.UserRepository
	feed  *cache.Feed
}

// NewBlogService wires the repositories over db. feed may be nil to run
// without Redis.
func NewBlogService(db *gorm.DB, feed *cache.Feed) *BlogService {
	return &BlogService{
		posts: repository.NewPostRepository(db),
		users: repository.NewUserRepository(db),
		feed:  feed,
	}
}

// ListPosts returns the whole feed in id order, served from Redis while fresh.
func (s *BlogService) ListPosts(ctx context.Context) ([]models.Post, error) {
	if cached, ok := s.feed.Get(ctx); ok {
		return cached, nil
	}
	gen, genErr := s.feed.Generation(ctx)
	posts, err := s.posts.All(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if genErr == nil {
		if _, err := s.feed.Set(ctx, gen, posts); err != nil {
			zap.L().Warn("failed to cache feed", zap.Error(err))
		}
	}
	return posts, nil
}

func (s *BlogService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.posts.Find(ctx, id)
}

func (s *BlogService) PagePosts(ctx context.Context, req repository.PageRequest) (*repository.Page, error) {
	return s.posts.Page(ctx, req)
}

// CreatePost validates in and stores it. Validation failures come back as
// validation.Errors.
func (s *BlogService) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	zap.L().Info("post created", zap.Int64("id", post.ID), zap.Int64("user_id", post.UserID))
	return post, nil
}

// UpdatePost applies patch to post id and saves it if the merged record is valid.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	post, err := s.posts.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(post)
	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BlogService) CreateUser(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{Email: strings.TrimSpace(email)}
	if err := validation.Struct(user); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BlogService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.Find(ctx, id)
}

// UserPosts lists the posts of an existing user.
func (s *BlogService) UserPosts(ctx context.Context, id int64) ([]models.Post, error) {
	if _, err := s.users.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.posts.ByUser(ctx, id)
}

// validatePost checks attribute rules and that the author exists, reporting
// every failing attribute at once.
func (s *BlogService) validatePost(ctx context.Context, post *models.Post) error {
	errs := validation.Errors{}
	if err := validation.Struct(post); err != nil {
		ve, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = ve
	}
	exists, err := s.users.Exists(ctx, post.UserID)
	if err != nil {
		return fmt.Errorf("validate post: %w", err)
	}
	if !exists {
		errs.Add("user", "must exist")
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *BlogService) invalidate(ctx context.Context) {
	if err := s.feed.Invalidate(ctx); err != nil {
		zap.L().Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
