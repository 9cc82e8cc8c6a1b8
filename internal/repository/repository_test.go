package repository

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/testutil"
)

func setup(t *testing.T, n int) (*PostRepository, *UserRepository, []models.Post) {
	t.Helper()
	db := testutil.NewDB(t)
	seed := testutil.Seeder{DB: db}
	user := seed.User(t, "bin@example.com")
	return NewPostRepository(db), NewUserRepository(db), seed.Posts(t, user.ID, n)
}

func ids(posts []models.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestPostRepository_AllAndFind(t *testing.T) {
	ctx := context.Background()
	posts, _, seeded := setup(t, 3)

	all, err := posts.All(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(ids(seeded), ids(all)); diff != "" {
		t.Fatalf("All() ids mismatch (-want +got):\n%s", diff)
	}

	got, err := posts.Find(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].Title, got.Title)
	assert.Equal(t, seeded[1].Content, got.Content)

	_, err = posts.Find(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = posts.Find(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_SaveDelete(t *testing.T) {
	ctx := context.Background()
	posts, _, seeded := setup(t, 2)

	p := seeded[0]
	p.Title = "A renamed post title"
	require.NoError(t, posts.Save(ctx, &p))
	got, err := posts.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A renamed post title", got.Title)

	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), ErrNotFound)

	n, err := posts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPostRepository_ByUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	seed := testutil.Seeder{DB: db}
	a := seed.User(t, "a@example.com")
	b := seed.User(t, "b@example.com")
	seed.Posts(t, a.ID, 2)
	seed.Posts(t, b.ID, 1)

	got, err := NewPostRepository(db).ByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, a.ID, p.UserID)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	_, users, _ := setup(t, 0)

	u := models.User{Email: "new@example.com"}
	require.NoError(t, users.Create(ctx, &u))
	require.NotZero(t, u.ID)

	ok, err := users.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.Exists(ctx, 4242)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = users.Find(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_PageWalk(t *testing.T) {
	ctx := context.Background()
	posts, _, seeded := setup(t, 25)

	for _, desc := range []bool{false, true} {
		var walked []int64
		req := PageRequest{Limit: 10, Desc: desc}
		pages := 0
		for {
			page, err := posts.Page(ctx, req)
			require.NoError(t, err)
			assert.EqualValues(t, 25, page.Total)
			assert.Equal(t, 3, page.TotalPages)
			walked = append(walked, ids(page.Items)...)
			pages++
			if page.NextCursor == 0 {
				break
			}
			req = PageRequest{After: page.NextCursor, Limit: 10, Desc: desc}
		}
		assert.Equal(t, 3, pages)

		want := ids(seeded)
		if desc {
			for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
				want[i], want[j] = want[j], want[i]
			}
		}
		if diff := cmp.Diff(want, walked); diff != "" {
			t.Errorf("desc=%v walk mismatch (-want +got):\n%s", desc, diff)
		}
	}
}

func TestPostRepository_PageBackward(t *testing.T) {
	ctx := context.Background()
	posts, _, seeded := setup(t, 12)

	first, err := posts.Page(ctx, PageRequest{Limit: 5})
	require.NoError(t, err)
	assert.Zero(t, first.PrevCursor)

	second, err := posts.Page(ctx, PageRequest{After: first.NextCursor, Limit: 5})
	require.NoError(t, err)
	require.NotZero(t, second.PrevCursor)
	assert.Equal(t, ids(seeded[5:10]), ids(second.Items))

	back, err := posts.Page(ctx, PageRequest{Before: second.PrevCursor, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, ids(first.Items), ids(back.Items))
	assert.Zero(t, back.PrevCursor)
	assert.Equal(t, first.NextCursor, back.NextCursor)
}

func TestPostRepository_PageLimits(t *testing.T) {
	ctx := context.Background()
	posts, _, _ := setup(t, 3)

	page, err := posts.Page(ctx, PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, page.PerPage)
	assert.Len(t, page.Items, 3)
	assert.Zero(t, page.NextCursor)

	page, err = posts.Page(ctx, PageRequest{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage, page.PerPage)

	_, err = posts.Page(ctx, PageRequest{After: 1, Before: 2})
	assert.Error(t, err)
}
