package models

import (
	"strings"
	"time"
)

// Post is a blog entry. Title and content limits count characters, not bytes.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title" validate:"present,min=10,max=50"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"present,min=20"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput carries the writable attributes of a new post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

// PostPatch carries a partial update; nil fields are left untouched.
type PostPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Apply merges the non-nil fields of the patch into p.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
}

// Excerpt shortens s to at most n characters on a single line, collapsing
// runs of whitespace and marking a cut with "…".
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}
