package models

import "time"

// User represents a blog account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID                string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Email             string    `gorm:"size:50;not null;uniqueIndex" bson:"email" json:"email"`
	Username          string    `gorm:"size:50;not null" bson:"username" json:"username"`
	PasswordHash      string    `gorm:"size:255;not null" bson:"password" json:"-"`
	Avatar            Image     `gorm:"embedded;embeddedPrefix:avatar_" bson:"avatar" json:"avatar"`
	Bio               string    `gorm:"type:text" bson:"bio,omitempty" json:"bio,omitempty"`
	IsAdmin           bool      `gorm:"default:false" bson:"is_admin" json:"is_admin"`
	IsAccountVerified bool      `gorm:"default:false" bson:"is_account_verified" json:"is_account_verified"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// UserUpdate carries the self-service profile fields. Nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	Bio          *string
	IsAdmin      *bool
}

// UserProfile is the public profile view: the user plus the posts they authored.
type UserProfile struct {
	User
	Posts []Post `json:"posts"`
}
