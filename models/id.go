package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh record id. Ids share the MongoDB ObjectID format across
// every storage backend so path validation means the same thing everywhere.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed record id.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername lowercases and trims a username.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
