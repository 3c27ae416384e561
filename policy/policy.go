// Package policy decides who may perform which action on which resource.
//
// Every protected operation is registered in a single table that maps the
// action to one of four rules. Handlers and middleware call Authorize with the
// authenticated principal and, for ownership rules, the id of the resource
// owner as loaded from the store.
package policy

import "errors"

var (
	// ErrUnauthenticated is returned when the caller has no identity or lacks
	// the admin role. It maps to 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when an authenticated caller is not entitled to
	// the specific resource. It maps to 403.
	ErrForbidden = errors.New("forbidden")
)

// Principal is the identity decoded from a verified token.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Rule is an authorization predicate.
type Rule int

const (
	// Authenticated admits any caller with a verified identity.
	Authenticated Rule = iota
	// AdminOnly admits admins.
	AdminOnly
	// OwnerOnly admits the resource owner, admins included only if they own it.
	OwnerOnly
	// OwnerOrAdmin admits the resource owner and every admin.
	OwnerOrAdmin
)

func (r Rule) String() string {
	switch r {
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin-only"
	case OwnerOnly:
		return "owner-only"
	case OwnerOrAdmin:
		return "owner-or-admin"
	default:
		return "unknown"
	}
}

// Action names a protected operation.
type Action string

const (
	AuthLogout Action = "auth.logout"

	UserList   Action = "user.list"
	UserCount  Action = "user.count"
	UserUpdate Action = "user.update"
	UserDelete Action = "user.delete"
	UserAvatar Action = "user.avatar"

	PostCreate      Action = "post.create"
	PostUpdate      Action = "post.update"
	PostUpdateImage Action = "post.update_image"
	PostDelete      Action = "post.delete"
	PostLike        Action = "post.like"

	CommentCreate Action = "comment.create"
	CommentList   Action = "comment.list"
	CommentUpdate Action = "comment.update"
	CommentDelete Action = "comment.delete"

	CategoryCreate Action = "category.create"
	CategoryList   Action = "category.list"
	CategoryDelete Action = "category.delete"
)

var table = map[Action]Rule{
	AuthLogout: Authenticated,

	UserList:   AdminOnly,
	UserCount:  AdminOnly,
	UserUpdate: OwnerOnly,
	UserDelete: OwnerOrAdmin,
	UserAvatar: Authenticated,

	PostCreate:      Authenticated,
	PostUpdate:      OwnerOnly,
	PostUpdateImage: OwnerOnly,
	PostDelete:      OwnerOrAdmin,
	PostLike:        Authenticated,

	CommentCreate: Authenticated,
	CommentList:   AdminOnly,
	CommentUpdate: OwnerOnly,
	CommentDelete: OwnerOrAdmin,

	CategoryCreate: AdminOnly,
	CategoryList:   AdminOnly,
	CategoryDelete: AdminOnly,
}

// RuleFor returns the rule registered for an action.
func RuleFor(a Action) (Rule, bool) {
	r, ok := table[a]
	return r, ok
}

// NeedsOwner reports whether evaluating the action requires an owner id.
func NeedsOwner(a Action) bool {
	r, ok := table[a]
	return ok && (r == OwnerOnly || r == OwnerOrAdmin)
}

// Authorize evaluates the action's rule for p. ownerID is ignored by rules
// that do not look at ownership. Unregistered actions are denied.
func Authorize(p Principal, a Action, ownerID string) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	rule, ok := table[a]
	if !ok {
		return ErrForbidden
	}
	isOwner := ownerID != "" && p.UserID == ownerID
	switch rule {
	case Authenticated:
		return nil
	case AdminOnly:
		if p.IsAdmin {
			return nil
		}
		return ErrUnauthenticated
	case OwnerOnly:
		if isOwner {
			return nil
		}
		return ErrForbidden
	case OwnerOrAdmin:
		if isOwner || p.IsAdmin {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}
