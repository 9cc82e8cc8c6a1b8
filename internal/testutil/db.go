// Package testutil provides fixtures shared by package tests: an isolated
// in-memory database and post/user factories that satisfy validation.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yourEmotion/goonrails/internal/config"
	"github.com/yourEmotion/goonrails/internal/models"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:goonrails_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := config.OpenDatabase(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Title returns a valid title tagged with n.
func Title(n int) string {
	return fmt.Sprintf("Post number %03d", n)
}

// Content returns valid content tagged with n.
func Content(n int) string {
	return fmt.Sprintf("Body of post %03d. %s", n, strings.Repeat("lorem ", 4))
}

// Seeder inserts fixture rows directly, bypassing the service layer.
type Seeder struct {
	DB *gorm.DB
}

func (s Seeder) User(t testing.TB, email string) models.User {
	t.Helper()
	u := models.User{Email: email}
	if err := s.DB.WithContext(context.Background()).Omit("Posts").Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// Posts inserts n posts owned by userID and returns them in id order.
func (s Seeder) Posts(t testing.TB, userID int64, n int) []models.Post {
	t.Helper()
	posts := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		p := models.Post{Title: Title(i), Content: Content(i), UserID: userID}
		if err := s.DB.Omit("User").Create(&p).Error; err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
		posts = append(posts, p)
	}
	return posts
}
