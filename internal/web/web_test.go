package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourEmotion/goonrails/internal/api"
	"github.com/yourEmotion/goonrails/internal/client"
	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/service"
	"github.com/yourEmotion/goonrails/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var detailsLink = regexp.MustCompile(`<a class="details" href="(/posts/\d+)">Details</a>`)

type countingSource struct {
	PostSource
	list, get int
	err       error
}

func (s *countingSource) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.list++
	if s.err != nil {
		return nil, s.err
	}
	return s.PostSource.ListPosts(ctx)
}

func (s *countingSource) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	s.get++
	if s.err != nil {
		return nil, s.err
	}
	return s.PostSource.GetPost(ctx, id)
}

// newSite serves the web pages against a real post store seeded with n posts.
func newSite(t *testing.T, n int) (*gin.Engine, *countingSource, []models.Post) {
	t.Helper()
	db := testutil.NewDB(t)
	seed := testutil.Seeder{DB: db}
	user := seed.User(t, "web@example.com")
	posts := seed.Posts(t, user.ID, n)

	store := httptest.NewServer(api.NewRouter(service.NewBlogService(db, nil)))
	t.Cleanup(store.Close)

	src := &countingSource{PostSource: client.New(store.URL, 5*time.Second)}
	return NewRouter(src), src, posts
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestIndexRendersOneCardPerPost(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("%d posts", n), func(t *testing.T) {
			r, src, posts := newSite(t, n)

			w := get(t, r, "/")
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()

			assert.Equal(t, n, strings.Count(body, `<article class="card">`))
			links := detailsLink.FindAllStringSubmatch(body, -1)
			require.Len(t, links, n)
			for i, p := range posts {
				assert.Contains(t, body, p.Title)
				assert.Contains(t, body, models.Excerpt(p.Content, excerptLen))
				assert.Equal(t, fmt.Sprintf("/posts/%d", p.ID), links[i][1])
			}
			if n == 0 {
				assert.Contains(t, body, "No posts yet.")
			}
			assert.Equal(t, 1, src.list)
			assert.Zero(t, src.get)
		})
	}
}

func TestShowRendersOnlyThatPost(t *testing.T) {
	r, src, posts := newSite(t, 6)
	want := posts[4]

	w := get(t, r, fmt.Sprintf("/posts/%d", want.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, want.Title)
	assert.Contains(t, body, want.Content)
	for _, p := range posts {
		if p.ID != want.ID {
			assert.NotContains(t, body, p.Title)
		}
	}
	assert.Equal(t, 1, src.get)
	assert.Zero(t, src.list)
}

func TestDetailsLinkOpensThePost(t *testing.T) {
	r, src, posts := newSite(t, 3)

	links := detailsLink.FindAllStringSubmatch(get(t, r, "/").Body.String(), -1)
	require.Len(t, links, 3)

	w := get(t, r, links[1][1])
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), posts[1].Title)
	assert.NotContains(t, w.Body.String(), posts[0].Title)
	assert.Equal(t, 1, src.list)
	assert.Equal(t, 1, src.get)
}

func TestFailedFetchRendersEmptyPage(t *testing.T) {
	src := &countingSource{err: errors.New("connection refused")}
	r := NewRouter(src)

	w := get(t, r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `class="card"`)
	assert.NotContains(t, w.Body.String(), "No posts yet.")

	w = get(t, r, "/posts/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `class="card"`)
	assert.Equal(t, 1, src.list)
	assert.Equal(t, 1, src.get)
}

func TestMissingPostRendersEmptyPage(t *testing.T) {
	r, _, _ := newSite(t, 1)

	w := get(t, r, "/posts/999")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `<article class="card">`)
}

func TestShowRejectsMalformedID(t *testing.T) {
	src := &countingSource{err: errors.New("unused")}
	r := NewRouter(src)

	for _, path := range []string{"/posts/abc", "/posts/0", "/posts/-3"} {
		w := get(t, r, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	assert.Zero(t, src.get)
}

func TestExcerptMatchesReader(t *testing.T) {
	excerpt := funcs["excerpt"].(func(string) string)
	assert.Equal(t, "short text", excerpt("short\n   text"))
	long := strings.Repeat("ü", 200)
	assert.Equal(t, models.Excerpt(long, excerptLen), excerpt(long))
	assert.Equal(t, excerptLen, len([]rune(excerpt(long))))
}
