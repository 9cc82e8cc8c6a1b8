package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/yourEmotion/goonrails/internal/models"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest selects a keyset page of posts. After and Before are post ids
// taken from a previous Page's cursors; at most one of them should be set.
type PageRequest struct {
	After  int64
	Before int64
	Limit  int
	Desc   bool
}

// Page is one slice of the post list in display order. A zero cursor means
// there is nothing further in that direction.
type Page struct {
	Items      []models.Post
	Total      int64
	TotalPages int
	PerPage    int
	PrevCursor int64
	NextCursor int64
}

func (req PageRequest) perPage() int {
	switch {
	case req.Limit <= 0:
		return DefaultPerPage
	case req.Limit > MaxPerPage:
		return MaxPerPage
	default:
		return req.Limit
	}
}

// ops returns the comparison that moves forward and backward in display order.
func (req PageRequest) ops() (fwd, back string) {
	if req.Desc {
		return "<", ">"
	}
	return ">", "<"
}

func (req PageRequest) order(reverse bool) string {
	if req.Desc != reverse {
		return "id desc"
	}
	return "id asc"
}

// Page returns the posts next to the request's cursor. Pages never overlap
// because ids are unique and compared strictly.
func (r *PostRepository) Page(ctx context.Context, req PageRequest) (*Page, error) {
	if req.After > 0 && req.Before > 0 {
		return nil, fmt.Errorf("page: after and before are mutually exclusive")
	}
	perPage := req.perPage()
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	fwd, back := req.ops()
	backward := req.Before > 0

	q := r.db.WithContext(ctx).Limit(perPage + 1)
	switch {
	case backward:
		q = q.Where("id "+back+" ?", req.Before).Order(req.order(true))
	case req.After > 0:
		q = q.Where("id "+fwd+" ?", req.After).Order(req.order(false))
	default:
		q = q.Order(req.order(false))
	}
	var items []models.Post
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("page posts: %w", err)
	}

	more := len(items) > perPage
	if more {
		items = items[:perPage]
	}
	if backward {
		slices.Reverse(items)
	}

	page := &Page{
		Items:      items,
		Total:      total,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
		PerPage:    perPage,
	}
	if len(items) == 0 {
		return page, nil
	}
	first, last := items[0].ID, items[len(items)-1].ID

	if backward {
		if more {
			page.PrevCursor = first
		}
		if ok, err := r.exists(ctx, fwd, last); err != nil {
			return nil, err
		} else if ok {
			page.NextCursor = last
		}
		return page, nil
	}

	if more {
		page.NextCursor = last
	}
	if req.After > 0 {
		if ok, err := r.exists(ctx, back, first); err != nil {
			return nil, err
		} else if ok {
			page.PrevCursor = first
		}
	}
	return page, nil
}

func (r *PostRepository) exists(ctx context.Context, op string, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id "+op+" ?", id).Limit(1).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("probe posts %s %d: %w", op, id, err)
	}
	return n > 0, nil
}
