package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &models.User{Email: "a@example.com", Username: "a"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.True(t, models.IsValidID(u.ID))
	assert.False(t, u.CreatedAt.IsZero())

	err := s.Users.Create(ctx, &models.User{Email: "a@example.com", Username: "b"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	found, err := s.Users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.Users.FindByID(ctx, models.NewID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserPartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Email: "a@example.com", Username: "a", Bio: "old"}
	require.NoError(t, s.Users.Create(ctx, u))

	name := "renamed"
	updated, err := s.Users.Update(ctx, u.ID, models.UserUpdate{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "old", updated.Bio)
}

func TestFindUsersByIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := &models.User{Email: "a@example.com", Username: "a"}
	b := &models.User{Email: "b@example.com", Username: "b"}
	require.NoError(t, s.Users.Create(ctx, a))
	require.NoError(t, s.Users.Create(ctx, b))

	found, err := s.Users.FindByIDs(ctx, []string{a.ID, models.NewID(), a.ID, b.ID})
	require.NoError(t, err)
	ids := []string{}
	for _, u := range found {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	none, err := s.Users.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestToggleLikeFlipsMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Post{Title: "t", AuthorID: models.NewID()}
	require.NoError(t, s.Posts.Create(ctx, p))
	liker := models.NewID()

	after, err := s.Posts.ToggleLike(ctx, p.ID, liker)
	require.NoError(t, err)
	assert.Equal(t, []string{liker}, after.Likes)

	after, err = s.Posts.ToggleLike(ctx, p.ID, liker)
	require.NoError(t, err)
	assert.Empty(t, after.Likes)

	_, err = s.Posts.ToggleLike(ctx, models.NewID(), liker)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReturnedPostsDoNotAliasStorage(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Post{Title: "t", AuthorID: models.NewID()}
	require.NoError(t, s.Posts.Create(ctx, p))
	_, err := s.Posts.ToggleLike(ctx, p.ID, "x")
	require.NoError(t, err)

	got, err := s.Posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	got.Likes[0] = "mutated"

	again, err := s.Posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, again.Likes)
}

func TestListPostsPagingAndCategory(t *testing.T) {
	ctx := context.Background()
	s := New()
	author := models.NewID()
	var ids []string
	for i, cat := range []string{"go", "go", "rust", "go"} {
		p := &models.Post{Title: string(rune('a' + i)), Category: cat, AuthorID: author}
		require.NoError(t, s.Posts.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	all, err := s.Posts.List(ctx, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID, "newest first")

	page, err := s.Posts.List(ctx, models.PostFilter{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	goPosts, err := s.Posts.List(ctx, models.PostFilter{Category: "go"})
	require.NoError(t, err)
	assert.Len(t, goPosts, 3)

	beyond, err := s.Posts.List(ctx, models.PostFilter{Page: 9, PerPage: 3})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestDeleteCommentsByPost(t *testing.T) {
	ctx := context.Background()
	s := New()
	post, other := models.NewID(), models.NewID()
	for _, pid := range []string{post, post, other} {
		require.NoError(t, s.Comments.Create(ctx, &models.Comment{PostID: pid, AuthorID: "u", Text: "hi"}))
	}

	n, err := s.Comments.DeleteByPost(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.Comments.ListByPost(ctx, post)
	require.NoError(t, err)
	assert.Empty(t, left)

	rest, err := s.Comments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
