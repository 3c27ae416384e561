package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/middleware"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

const msgUserNotFound = "404! User not found."

// UserController manages profiles, avatars and account removal.
type UserController struct {
	store   *store.Store
	images  imagehost.Host
	cache   *utils.Cache
	cascade bool
}

// NewUserController creates a new UserController. When cascade is set,
// deleting a user also deletes everything the user authored.
func NewUserController(st *store.Store, images imagehost.Host, cache *utils.Cache, cascade bool) *UserController {
	return &UserController{store: st, images: images, cache: cache, cascade: cascade}
}

// ListUsers returns every account, newest first.
func (u *UserController) ListUsers(ctx *gin.Context) {
	users, err := u.store.Users.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, users)
}

// CountUsers reports how many accounts exist.
func (u *UserController) CountUsers(ctx *gin.Context) {
	n, err := u.store.Users.Count(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, fmt.Sprintf("%d users in the DB.", n), gin.H{"count": n})
}

// GetProfile returns a user with the posts they wrote.
func (u *UserController) GetProfile(ctx *gin.Context) {
	id := ctx.Param("id")
	user, err := u.store.Users.FindByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}
	posts, err := u.store.Posts.ListByAuthor(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, models.UserProfile{User: *user, Posts: posts})
}

// UpdateProfile changes username, password or bio of the caller's own account.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	var req validation.UpdateUser
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	id := ctx.Param("id")
	if _, err := u.store.Users.FindByID(ctx.Request.Context(), id); err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}

	upd := models.UserUpdate{Bio: req.Bio}
	if req.Username != nil {
		name := models.NormalizeUsername(*req.Username)
		upd.Username = &name
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.Fail(ctx, err)
			return
		}
		upd.PasswordHash = &hash
	}

	user, err := u.store.Users.Update(ctx.Request.Context(), id, upd)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}
	// Post lists and details embed the author.
	u.cache.InvalidateByPrefix(ctx.Request.Context(), postsPrefix)
	utils.Success(ctx, user)
}

// UploadAvatar stores a new avatar for the caller and then drops the old one.
func (u *UserController) UploadAvatar(ctx *gin.Context) {
	path, ok := middleware.UploadedFile(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "No image provided! Try again.")
		return
	}

	reqCtx := ctx.Request.Context()
	user, err := u.store.Users.FindByID(reqCtx, principal(ctx).UserID)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}

	img, err := u.images.Upload(reqCtx, path)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if _, err := u.store.Users.SetAvatar(reqCtx, user.ID, img); err != nil {
		discardUpload(reqCtx, u.images, img)
		utils.Fail(ctx, err)
		return
	}
	replaceImage(reqCtx, u.images, user.Avatar)
	u.cache.InvalidateByPrefix(reqCtx, postsPrefix)

	utils.Created(ctx, "Successfully uploaded the profile photo.", gin.H{"avatar": img})
}

// DeleteUser removes an account: its content when cascading is enabled, then
// its hosted avatar, then the record. The first failing step is reported and
// earlier steps stay applied.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("id")
	reqCtx := ctx.Request.Context()
	user, err := u.store.Users.FindByID(reqCtx, id)
	if err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}

	if u.cascade {
		if err := deleteUserContent(reqCtx, u.store, u.images, id); err != nil {
			utils.Fail(ctx, err)
			return
		}
		u.cache.InvalidateByPrefix(reqCtx, postsPrefix)
	}
	if user.Avatar.IsHosted() {
		if err := u.images.Delete(reqCtx, user.Avatar.PublicID); err != nil {
			utils.Fail(ctx, err)
			return
		}
	}
	if err := u.store.Users.Delete(reqCtx, id); err != nil {
		utils.Fail(ctx, notFoundAs(err, 40402, msgUserNotFound))
		return
	}
	// Surviving posts still embed the removed author.
	u.cache.InvalidateByPrefix(reqCtx, postsPrefix)

	utils.Logger.Info("user deleted", zap.String("user_id", id), zap.String("by", principal(ctx).UserID), zap.Bool("cascade", u.cascade))
	utils.Message(ctx, "User has been deleted successfully.", gin.H{"user_id": id})
}
