// Package seed fills a Postgres post store with synthetic users and posts.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/yourEmotion/goonrails/internal/models"
)

// maxTitle mirrors the title length limit on models.Post.
const maxTitle = 50

var words = []string{
	"rails", "gopher", "channel", "cache", "router", "migration", "schema",
	"feed", "cursor", "handler", "template", "widget", "screen", "server",
	"queue", "index", "redis", "postgres", "deploy", "review",
}

var sentences = []string{
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
	"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco.",
	"Duis aute irure dolor in reprehenderit in voluptate velit esse.",
	"Excepteur sint occaecat cupidatat non proident, sunt in culpa.",
	"Every screen asks the post store exactly once when it opens.",
}

// Generator produces rows that pass model validation. It is not safe for
// concurrent use.
type Generator struct {
	r   *rand.Rand
	now time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{r: rand.New(rand.NewSource(seed)), now: time.Now()}
}

// User returns the i-th user. Emails are unique per i.
func (g *Generator) User(i int) models.User {
	at := g.timestamp()
	return models.User{
		Email:     fmt.Sprintf("user%d@example.com", i),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Post returns a post owned by one of userIDs.
func (g *Generator) Post(userIDs []int64) models.Post {
	at := g.timestamp()
	return models.Post{
		Title:     g.title(),
		Content:   g.content(),
		UserID:    userIDs[g.r.Intn(len(userIDs))],
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// title is 10 to 50 characters long.
func (g *Generator) title() string {
	var b strings.Builder
	b.WriteString("Notes on")
	for n := 1 + g.r.Intn(5); n > 0; n-- {
		w := words[g.r.Intn(len(words))]
		if b.Len()+1+len(w) > maxTitle {
			break
		}
		b.WriteByte(' ')
		b.WriteString(w)
	}
	return b.String()
}

// content is at least 20 characters long.
func (g *Generator) content() string {
	parts := make([]string, 1+g.r.Intn(4))
	for i := range parts {
		parts[i] = sentences[g.r.Intn(len(sentences))]
	}
	return strings.Join(parts, " ")
}

// timestamp is uniform over the last year.
func (g *Generator) timestamp() time.Time {
	span := int64(365 * 24 * time.Hour)
	return g.now.Add(-time.Duration(g.r.Int63n(span))).UTC().Truncate(time.Microsecond)
}
