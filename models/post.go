package models

import "time"

// Post is a blog article. Author never changes after creation and the image is
// replaced only through the dedicated image operation.
type Post struct {
	ID        string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Title     string    `gorm:"size:200;not null" bson:"title" json:"title"`
	Body      string    `gorm:"type:text;not null" bson:"body" json:"body"`
	Category  string    `gorm:"size:64;index" bson:"category" json:"category"`
	AuthorID  string    `gorm:"size:24;index;not null" bson:"author" json:"author_id"`
	Image     Image     `gorm:"embedded;embeddedPrefix:image_" bson:"image" json:"image"`
	Likes     []string  `gorm:"-" bson:"likes" json:"likes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasLike reports whether userID is in the post's like-set.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostLike is one like-set membership row for relational backends.
// The composite unique index keeps a user from liking a post twice.
type PostLike struct {
	PostID    string `gorm:"primaryKey;size:24;uniqueIndex:idx_post_likes_post_user"`
	UserID    string `gorm:"primaryKey;size:24;uniqueIndex:idx_post_likes_post_user;index"`
	CreatedAt time.Time
}

// PostUpdate carries editable post fields. Nil fields are left untouched.
type PostUpdate struct {
	Title    *string
	Body     *string
	Category *string
}

// PostFilter narrows post listings. Page 0 returns every matching post.
type PostFilter struct {
	Category string
	Page     int
	PerPage  int
}

// PostSummary is a listed post with its author resolved. Author is nil when
// the account no longer exists.
type PostSummary struct {
	Post
	Author *User `json:"author"`
}

// PostDetail is a post with its author and comments resolved.
type PostDetail struct {
	Post
	Author   *User     `json:"author"`
	Comments []Comment `json:"comments"`
}
