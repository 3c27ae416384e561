package models

import "time"

// Comment is a reply on a post. Username is a snapshot of the author's
// username when the comment was written and is not kept in sync afterwards.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	PostID    string    `gorm:"size:24;index;not null" bson:"post_id" json:"post_id"`
	AuthorID  string    `gorm:"size:24;index;not null" bson:"author" json:"author_id"`
	Text      string    `gorm:"type:text;not null" bson:"text" json:"text"`
	Username  string    `gorm:"size:50;not null" bson:"username" json:"username"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CommentDetail is a comment with its author resolved for moderation views.
type CommentDetail struct {
	Comment
	Author *User `json:"author"`
}
