// Package gormstore implements the store contracts on a relational database through gorm.
package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

// Models lists every table this backend needs migrated.
func Models() []interface{} {
	return []interface{}{&models.User{}, &models.Post{}, &models.PostLike{}, &models.Comment{}, &models.Category{}}
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *store.Store {
	closer := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return store.New(userStore{db}, postStore{db}, commentStore{db}, categoryStore{db}, closer)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "Duplicate entry"):
		return store.ErrDuplicate
	default:
		return err
	}
}

func assignID(id *string) {
	if *id == "" {
		*id = models.NewID()
	}
}

type userStore struct{ db *gorm.DB }

func (s userStore) Create(ctx context.Context, u *models.User) error {
	assignID(&u.ID)
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s userStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s userStore) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

func (s userStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

func (s userStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}

func (s userStore) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	changes := map[string]interface{}{}
	if upd.Username != nil {
		changes["username"] = *upd.Username
	}
	if upd.PasswordHash != nil {
		changes["password_hash"] = *upd.PasswordHash
	}
	if upd.Bio != nil {
		changes["bio"] = *upd.Bio
	}
	if upd.IsAdmin != nil {
		changes["is_admin"] = *upd.IsAdmin
	}
	return s.apply(ctx, id, changes)
}

func (s userStore) SetAvatar(ctx context.Context, id string, img models.Image) (*models.User, error) {
	return s.apply(ctx, id, map[string]interface{}{
		"avatar_url":       img.URL,
		"avatar_public_id": img.PublicID,
	})
}

func (s userStore) apply(ctx context.Context, id string, changes map[string]interface{}) (*models.User, error) {
	changes["updated_at"] = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return s.FindByID(ctx, id)
}

func (s userStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type postStore struct{ db *gorm.DB }

// attachLikes fills the like-set of each post from the join table.
func (s postStore) attachLikes(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Likes = []string{}
	}
	var rows []models.PostLike
	if err := s.db.WithContext(ctx).Where("post_id IN ?", ids).Order("created_at ASC").Find(&rows).Error; err != nil {
		return translate(err)
	}
	for _, r := range rows {
		i := index[r.PostID]
		posts[i].Likes = append(posts[i].Likes, r.UserID)
	}
	return nil
}

func (s postStore) Create(ctx context.Context, p *models.Post) error {
	assignID(&p.ID)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	p.Likes = []string{}
	return nil
}

func (s postStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	posts := []models.Post{p}
	if err := s.attachLikes(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s postStore) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Page > 0 && f.PerPage > 0 {
		q = q.Offset((f.Page - 1) * f.PerPage).Limit(f.PerPage)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	return posts, s.attachLikes(ctx, posts)
}

func (s postStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, translate(err)
}

func (s postStore) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	return posts, s.attachLikes(ctx, posts)
}

func (s postStore) Update(ctx context.Context, id string, upd models.PostUpdate) (*models.Post, error) {
	changes := map[string]interface{}{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		changes["title"] = *upd.Title
	}
	if upd.Body != nil {
		changes["body"] = *upd.Body
	}
	if upd.Category != nil {
		changes["category"] = *upd.Category
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, translate(err)
	}
	return s.FindByID(ctx, id)
}

func (s postStore) SetImage(ctx context.Context, id string, img models.Image) (*models.Post, error) {
	changes := map[string]interface{}{
		"image_url":       img.URL,
		"image_public_id": img.PublicID,
		"updated_at":      time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, translate(err)
	}
	return s.FindByID(ctx, id)
}

func (s postStore) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Post
		// Row lock serializes concurrent toggles on the same post.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", postID).Error; err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.FindByID(ctx, postID)
}

func (s postStore) Delete(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error
	}))
}

type commentStore struct{ db *gorm.DB }

func (s commentStore) Create(ctx context.Context, c *models.Comment) error {
	assignID(&c.ID)
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s commentStore) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s commentStore) List(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&comments).Error
	return comments, translate(err)
}

func (s commentStore) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, translate(err)
}

func (s commentStore) Update(ctx context.Context, id, text string) (*models.Comment, error) {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"text": text, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return s.FindByID(ctx, id)
}

func (s commentStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s commentStore) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	return res.RowsAffected, translate(res.Error)
}

func (s commentStore) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Comment{})
	return res.RowsAffected, translate(res.Error)
}

type categoryStore struct{ db *gorm.DB }

func (s categoryStore) Create(ctx context.Context, c *models.Category) error {
	assignID(&c.ID)
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s categoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s categoryStore) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&categories).Error
	return categories, translate(err)
}

func (s categoryStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
