// Package store defines the persistence contracts shared by every storage backend.
package store

import (
	"context"
	"errors"

	"github.com/blogforge/blogd/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	SetAvatar(ctx context.Context, id string, img models.Image) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// PostStore persists posts and their like-sets.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	Update(ctx context.Context, id string, upd models.PostUpdate) (*models.Post, error)
	SetImage(ctx context.Context, id string, img models.Image) (*models.Post, error)
	// ToggleLike removes userID from the like-set when present and adds it otherwise.
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	List(ctx context.Context) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Update(ctx context.Context, id, text string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles the collections of one backend.
type Store struct {
	Users      UserStore
	Posts      PostStore
	Comments   CommentStore
	Categories CategoryStore

	closer func(context.Context) error
}

// New assembles a Store. closer may be nil.
func New(users UserStore, posts PostStore, comments CommentStore, categories CategoryStore, closer func(context.Context) error) *Store {
	return &Store{Users: users, Posts: posts, Comments: comments, Categories: categories, closer: closer}
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}
