package gormstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "not found", in: gorm.ErrRecordNotFound, want: store.ErrNotFound},
		{name: "wrapped not found", in: fmt.Errorf("load: %w", gorm.ErrRecordNotFound), want: store.ErrNotFound},
		{name: "duplicate key", in: gorm.ErrDuplicatedKey, want: store.ErrDuplicate},
		{name: "mysql duplicate", in: errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'idx_users_email'"), want: store.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestAssignIDKeepsExisting(t *testing.T) {
	id := ""
	assignID(&id)
	assert.True(t, models.IsValidID(id))

	fixed := models.NewID()
	kept := fixed
	assignID(&kept)
	assert.Equal(t, fixed, kept)
}

func TestModelsCoverLikeTable(t *testing.T) {
	assert.Contains(t, Models(), interface{}(&models.PostLike{}))
}
