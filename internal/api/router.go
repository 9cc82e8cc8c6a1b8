// Package api serves the post store over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourEmotion/goonrails/internal/middleware"
	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/repository"
)

// PostService is the part of the blog service the HTTP surface needs.
type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	PagePosts(ctx context.Context, req repository.PageRequest) (*repository.Page, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	UserPosts(ctx context.Context, id int64) ([]models.Post, error)
}

type Handler struct {
	svc PostService
}

// NewRouter builds the HTTP API:
//
//	GET    /                 full feed
//	GET    /posts            keyset page (after, before, limit, order)
//	POST   /posts            create
//	GET    /posts/:id        one post
//	PATCH  /posts/:id        partial update
//	DELETE /posts/:id        delete
//	GET    /users/:id/posts  posts of one user
func NewRouter(svc PostService) *gin.Engine {
	h := &Handler{svc: svc}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS(), middleware.Logger(), middleware.Metrics())

	r.GET("/", h.Index)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	posts := r.Group("/posts")
	posts.GET("", h.Page)
	posts.POST("", h.Create)
	posts.GET("/:id", h.Show)
	posts.PATCH("/:id", h.Update)
	posts.DELETE("/:id", h.Destroy)

	r.GET("/users/:id/posts", h.UserPosts)
	return r
}
