package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/middleware"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

const (
	msgUserExists   = "User already exists! Login to your account."
	msgInvalidLogin = "Invalid email or password."
	msgRegistered   = "Successfully registered! Please login in to your account."
	msgLoggedOut    = "Logged out successfully."
)

// AuthController handles registration, login and logout.
type AuthController struct {
	users     store.UserStore
	tokens    *utils.TokenIssuer
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users store.UserStore, tokens *utils.TokenIssuer, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{users: users, tokens: tokens, blacklist: blacklist}
}

// Register creates an account with a hashed password and the default avatar.
func (a *AuthController) Register(ctx *gin.Context) {
	var req validation.RegisterUser
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	email := models.NormalizeEmail(req.Email)
	_, err := a.users.FindByEmail(ctx.Request.Context(), email)
	switch {
	case err == nil:
		utils.Error(ctx, http.StatusBadRequest, 40020, msgUserExists)
		return
	case !errors.Is(err, store.ErrNotFound):
		utils.Fail(ctx, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	user := models.User{
		Email:        email,
		Username:     models.NormalizeUsername(req.Username),
		PasswordHash: hash,
		Avatar:       models.DefaultAvatar(),
	}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusBadRequest, 40020, msgUserExists)
			return
		}
		utils.Fail(ctx, err)
		return
	}

	utils.Logger.Info("user registered", zap.String("user_id", user.ID))
	utils.Created(ctx, msgRegistered, user)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same answer.
func (a *AuthController) Login(ctx *gin.Context) {
	var req validation.LoginUser
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	user, err := a.users.FindByEmail(ctx.Request.Context(), models.NormalizeEmail(req.Email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.Fail(ctx, err)
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40021, msgInvalidLogin)
		return
	}

	token, err := a.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"avatar":   user.Avatar,
		"token":    token,
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	raw, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, ok := raw.(*utils.Claims)
	if token == "" || !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, utils.MsgUnauthenticated)
		return
	}
	if err := a.blacklist.Revoke(ctx.Request.Context(), token, a.tokens.ExpiresAt(claims)); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Message(ctx, msgLoggedOut, nil)
}
