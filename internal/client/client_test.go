package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":1,"title":"First post title","content":"First post content body"},{"id":2,"title":"Second post title","content":"Second post content body"}]}`))
	})
	mux.HandleFunc("GET /posts/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":5,"title":"Fifth post title","content":"Fifth post content body"}}`))
	})
	mux.HandleFunc("GET /posts/6", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":`))
	})
	mux.HandleFunc("GET /posts/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Post not found or some error occurred!", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListPosts(t *testing.T) {
	srv := newStore(t)
	c := New(srv.URL+"/", time.Second)

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second post title", posts[1].Title)
}

func TestGetPost(t *testing.T) {
	srv := newStore(t)
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	post, err := c.GetPost(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), post.ID)
	assert.Equal(t, "Fifth post content body", post.Content)

	_, err = c.GetPost(ctx, 9)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Post not found or some error occurred!", se.Body)

	_, err = c.GetPost(ctx, 6)
	assert.ErrorContains(t, err, "decode")

	_, err = c.GetPost(ctx, 7)
	assert.ErrorContains(t, err, "empty response")
}

func TestUnreachableStore(t *testing.T) {
	srv := newStore(t)
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).ListPosts(context.Background())
	assert.Error(t, err)
}
