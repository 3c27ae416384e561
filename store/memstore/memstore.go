// Package memstore keeps every collection in process memory. It backs local
// development (DB_DRIVER=memory) and the HTTP tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

type db struct {
	mu         sync.RWMutex
	users      map[string]models.User
	posts      map[string]models.Post
	comments   map[string]models.Comment
	categories map[string]models.Category
}

// New returns an empty in-memory Store.
func New() *store.Store {
	d := &db{
		users:      map[string]models.User{},
		posts:      map[string]models.Post{},
		comments:   map[string]models.Comment{},
		categories: map[string]models.Category{},
	}
	return store.New(userStore{d}, postStore{d}, commentStore{d}, categoryStore{d}, nil)
}

func stamp(id *string, created, updated *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = models.NewID()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// before orders records by creation time, falling back to the id whose
// ObjectID counter increases monotonically within a process.
func before(at time.Time, aID string, bt time.Time, bID string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return aID < bID
}

func clonePost(p models.Post) models.Post {
	p.Likes = append([]string{}, p.Likes...)
	return p
}

type userStore struct{ d *db }

func (s userStore) Create(_ context.Context, u *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, existing := range s.d.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	s.d.users[u.ID] = *u
	return nil
}

func (s userStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s userStore) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]models.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if u, ok := s.d.users[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, u)
		}
	}
	return out, nil
}

func (s userStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, u := range s.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s userStore) List(_ context.Context) ([]models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]models.User, 0, len(s.d.users))
	for _, u := range s.d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[j].CreatedAt, out[j].ID, out[i].CreatedAt, out[i].ID) })
	return out, nil
}

func (s userStore) Count(_ context.Context) (int64, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return int64(len(s.d.users)), nil
}

func (s userStore) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	u.UpdatedAt = time.Now().UTC()
	s.d.users[id] = u
	return &u, nil
}

func (s userStore) SetAvatar(_ context.Context, id string, img models.Image) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Avatar = img
	u.UpdatedAt = time.Now().UTC()
	s.d.users[id] = u
	return &u, nil
}

func (s userStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.d.users, id)
	return nil
}

type postStore struct{ d *db }

func (s postStore) Create(_ context.Context, p *models.Post) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if p.Likes == nil {
		p.Likes = []string{}
	}
	s.d.posts[p.ID] = clonePost(*p)
	return nil
}

func (s postStore) FindByID(_ context.Context, id string) (*models.Post, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	p, ok := s.d.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = clonePost(p)
	return &p, nil
}

func (s postStore) sorted(match func(models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range s.d.posts {
		if match(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(out[j].CreatedAt, out[j].ID, out[i].CreatedAt, out[i].ID) })
	return out
}

func (s postStore) List(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := s.sorted(func(p models.Post) bool { return f.Category == "" || p.Category == f.Category })
	if f.Page <= 0 || f.PerPage <= 0 {
		return out, nil
	}
	start := (f.Page - 1) * f.PerPage
	if start >= len(out) {
		return []models.Post{}, nil
	}
	end := start + f.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s postStore) Count(_ context.Context) (int64, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return int64(len(s.d.posts)), nil
}

func (s postStore) ListByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return s.sorted(func(p models.Post) bool { return p.AuthorID == authorID }), nil
}

func (s postStore) Update(_ context.Context, id string, upd models.PostUpdate) (*models.Post, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Body != nil {
		p.Body = *upd.Body
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	p.UpdatedAt = time.Now().UTC()
	s.d.posts[id] = p
	p = clonePost(p)
	return &p, nil
}

func (s postStore) SetImage(_ context.Context, id string, img models.Image) (*models.Post, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Image = img
	p.UpdatedAt = time.Now().UTC()
	s.d.posts[id] = p
	p = clonePost(p)
	return &p, nil
}

func (s postStore) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.posts[postID]
	if !ok {
		return nil, store.ErrNotFound
	}
	likes := make([]string, 0, len(p.Likes)+1)
	found := false
	for _, id := range p.Likes {
		if id == userID {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, userID)
	}
	p.Likes = likes
	s.d.posts[postID] = p
	p = clonePost(p)
	return &p, nil
}

func (s postStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.d.posts, id)
	return nil
}

type commentStore struct{ d *db }

func (s commentStore) Create(_ context.Context, c *models.Comment) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.d.comments[c.ID] = *c
	return nil
}

func (s commentStore) FindByID(_ context.Context, id string) (*models.Comment, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	c, ok := s.d.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s commentStore) filter(match func(models.Comment) bool) []models.Comment {
	out := []models.Comment{}
	for _, c := range s.d.comments {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out
}

func (s commentStore) List(_ context.Context) ([]models.Comment, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return s.filter(func(models.Comment) bool { return true }), nil
}

func (s commentStore) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return s.filter(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (s commentStore) Update(_ context.Context, id, text string) (*models.Comment, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Text = text
	c.UpdatedAt = time.Now().UTC()
	s.d.comments[id] = c
	return &c, nil
}

func (s commentStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.d.comments, id)
	return nil
}

func (s commentStore) deleteWhere(match func(models.Comment) bool) int64 {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var n int64
	for id, c := range s.d.comments {
		if match(c) {
			delete(s.d.comments, id)
			n++
		}
	}
	return n
}

func (s commentStore) DeleteByPost(_ context.Context, postID string) (int64, error) {
	return s.deleteWhere(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (s commentStore) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	return s.deleteWhere(func(c models.Comment) bool { return c.AuthorID == authorID }), nil
}

type categoryStore struct{ d *db }

func (s categoryStore) Create(_ context.Context, c *models.Category) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.d.categories[c.ID] = *c
	return nil
}

func (s categoryStore) FindByID(_ context.Context, id string) (*models.Category, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	c, ok := s.d.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s categoryStore) List(_ context.Context) ([]models.Category, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]models.Category, 0, len(s.d.categories))
	for _, c := range s.d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (s categoryStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.d.categories, id)
	return nil
}
