package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/repository"
	"github.com/yourEmotion/goonrails/internal/service"
	"github.com/yourEmotion/goonrails/internal/validation"
)

const (
	msgPostsNotFound = "Posts not found or some error occurred!"
	msgPostNotFound  = "Post not found or some error occurred!"
	msgUserNotFound  = "User not found or some error occurred!"
)

var errBadID = errors.New("id must be a positive integer")

// PageMeta describes a keyset page in responses.
type PageMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	PerPage    int   `json:"per_page"`
	PrevCursor int64 `json:"prev_cursor,omitempty"`
	NextCursor int64 `json:"next_cursor,omitempty"`
}

func (h *Handler) Index(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, msgPostsNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *Handler) Show(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, msgPostNotFound)
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *Handler) Page(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.svc.PagePosts(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, msgPostsNotFound)
		return
	}
	items := page.Items
	if items == nil {
		items = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": PageMeta{
			Total:      page.Total,
			TotalPages: page.TotalPages,
			PerPage:    page.PerPage,
			PrevCursor: page.PrevCursor,
			NextCursor: page.NextCursor,
		},
	})
}

func (h *Handler) Create(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed post: " + err.Error()})
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.String(http.StatusNotFound, msgPostNotFound)
		return
	}
	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed post: " + err.Error()})
		return
	}
	post, err := h.svc.UpdatePost(c.Request.Context(), id, patch)
	if err != nil {
		h.writeError(c, err, msgPostNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *Handler) Destroy(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.String(http.StatusNotFound, msgPostNotFound)
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		h.writeError(c, err, msgPostNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UserPosts(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.String(http.StatusNotFound, msgUserNotFound)
		return
	}
	posts, err := h.svc.UserPosts(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// writeError maps service errors onto statuses: not found 404, validation
// 422 with per-attribute messages, anything else 500.
func (h *Handler) writeError(c *gin.Context, err error, notFound string) {
	if ve, ok := validation.As(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve})
		return
	}
	_ = c.Error(err)
	if service.IsNotFound(err) {
		c.String(http.StatusNotFound, notFound)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func paramID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errBadID, c.Param("id"))
	}
	return id, nil
}

func pageRequest(c *gin.Context) (repository.PageRequest, error) {
	var req repository.PageRequest
	var err error
	if v := c.Query("after"); v != "" {
		if req.After, err = strconv.ParseInt(v, 10, 64); err != nil || req.After < 0 {
			return req, fmt.Errorf("after must be a post id")
		}
	}
	if v := c.Query("before"); v != "" {
		if req.Before, err = strconv.ParseInt(v, 10, 64); err != nil || req.Before < 0 {
			return req, fmt.Errorf("before must be a post id")
		}
	}
	if req.After > 0 && req.Before > 0 {
		return req, fmt.Errorf("after and before are mutually exclusive")
	}
	if v := c.Query("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil || req.Limit < 0 {
			return req, fmt.Errorf("limit must be a non-negative integer")
		}
	}
	switch c.DefaultQuery("order", "asc") {
	case "asc":
	case "desc":
		req.Desc = true
	default:
		return req, fmt.Errorf("order must be asc or desc")
	}
	return req, nil
}
