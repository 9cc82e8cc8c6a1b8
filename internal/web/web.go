// Package web renders the post list and post detail pages as HTML, reading
// posts from a post store on every request.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourEmotion/goonrails/internal/middleware"
	"github.com/yourEmotion/goonrails/internal/models"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const excerptLen = 140

// PostSource is where pages read posts from.
type PostSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
}

type Handler struct {
	src PostSource
}

var funcs = template.FuncMap{
	"excerpt":  func(s string) string { return models.Excerpt(s, excerptLen) },
	"postPath": func(id int64) string { return "/posts/" + strconv.FormatInt(id, 10) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006/1/2")
	},
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// NewRouter serves GET / and GET /posts/:id.
func NewRouter(src PostSource) *gin.Engine {
	h := &Handler{src: src}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.Index)
	r.GET("/posts/:id", h.Show)
	return r
}

type indexPage struct {
	Posts  []models.Post
	Loaded bool
}

type showPage struct {
	Post *models.Post
}

// Index renders one card per post. A failed fetch renders the page without
// cards.
func (h *Handler) Index(c *gin.Context) {
	posts, err := h.src.ListPosts(c.Request.Context())
	if err != nil {
		zap.L().Debug("post list fetch failed", zap.Error(err))
		posts = nil
	}
	c.HTML(http.StatusOK, "index.html", indexPage{Posts: posts, Loaded: err == nil})
}

// Show renders a single post. A failed fetch renders the page without it.
func (h *Handler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "Page not found")
		return
	}
	post, err := h.src.GetPost(c.Request.Context(), id)
	if err != nil {
		zap.L().Debug("post fetch failed", zap.Int64("id", id), zap.Error(err))
		post = nil
	}
	c.HTML(http.StatusOK, "show.html", showPage{Post: post})
}
