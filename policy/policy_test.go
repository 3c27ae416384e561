package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := Principal{UserID: "u1"}
	stranger := Principal{UserID: "u2"}
	admin := Principal{UserID: "a1", IsAdmin: true}

	tests := []struct {
		name    string
		p       Principal
		action  Action
		ownerID string
		want    error
	}{
		{"anonymous is rejected", Principal{}, PostLike, "", ErrUnauthenticated},
		{"authenticated rule admits anyone", stranger, PostCreate, "", nil},
		{"admin-only admits admin", admin, CategoryCreate, "", nil},
		{"admin-only rejects user with 401", owner, CategoryList, "", ErrUnauthenticated},
		{"owner-only admits owner", owner, CommentUpdate, "u1", nil},
		{"owner-only rejects stranger", stranger, CommentUpdate, "u1", ErrForbidden},
		{"owner-only rejects admin who is not owner", admin, CommentUpdate, "u1", ErrForbidden},
		{"owner-or-admin admits owner", owner, CommentDelete, "u1", nil},
		{"owner-or-admin admits admin", admin, CommentDelete, "u1", nil},
		{"owner-or-admin rejects stranger", stranger, PostDelete, "u1", ErrForbidden},
		{"empty owner never matches", Principal{UserID: "u1"}, PostUpdate, "", ErrForbidden},
		{"unknown action is denied", admin, Action("nope"), "", ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, tt.action, tt.ownerID)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTableCoversEveryAction(t *testing.T) {
	actions := []Action{
		AuthLogout, UserList, UserCount, UserUpdate, UserDelete, UserAvatar,
		PostCreate, PostUpdate, PostUpdateImage, PostDelete, PostLike,
		CommentCreate, CommentList, CommentUpdate, CommentDelete,
		CategoryCreate, CategoryList, CategoryDelete,
	}
	for _, a := range actions {
		_, ok := RuleFor(a)
		assert.True(t, ok, string(a))
	}
	assert.True(t, NeedsOwner(PostDelete))
	assert.False(t, NeedsOwner(CategoryDelete))
	assert.Equal(t, "owner-or-admin", OwnerOrAdmin.String())
}
