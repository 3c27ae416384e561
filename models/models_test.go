package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDs(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 24)
	assert.True(t, IsValidID(id))

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id + "0"} {
		assert.False(t, IsValidID(bad), bad)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
	assert.Equal(t, "jane", NormalizeUsername(" JANE"))
}

func TestPostHasLike(t *testing.T) {
	p := Post{Likes: []string{"a", "b"}}
	assert.True(t, p.HasLike("b"))
	assert.False(t, p.HasLike("c"))
}

func TestImageIsHosted(t *testing.T) {
	assert.False(t, DefaultAvatar().IsHosted())
	assert.True(t, Image{URL: "u", PublicID: "p"}.IsHosted())
}
