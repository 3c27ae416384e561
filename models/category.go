package models

import "time"

// Category is an admin-managed label for grouping posts.
type Category struct {
	ID        string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Name      string    `gorm:"size:64;not null" bson:"name" json:"name"`
	AuthorID  string    `gorm:"size:24;not null" bson:"author" json:"author_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
