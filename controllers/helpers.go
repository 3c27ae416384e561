package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/middleware"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/utils"
	"github.com/blogforge/blogd/validation"
)

var errInvalidPayload = utils.BadRequest(40002, "invalid request payload")

// bindJSON decodes the request body into schema and validates it. An empty
// body decodes as an empty object so missing fields get field-level messages.
func bindJSON(ctx *gin.Context, schema interface{}) error {
	if err := ctx.ShouldBindJSON(schema); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidPayload
	}
	return validation.Validate(schema)
}

// principal returns the authenticated caller. Routes that call it are always
// behind AuthRequired, so an absent principal is a wiring bug and fails closed.
func principal(ctx *gin.Context) policy.Principal {
	p, _ := middleware.CurrentPrincipal(ctx)
	return p
}

// notFoundAs replaces store.ErrNotFound with a resource specific 404.
func notFoundAs(err error, code int, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFound(code, msg)
	}
	return err
}

// authorsByID loads the distinct authors among ids in one store call.
func authorsByID(ctx context.Context, users store.UserStore, ids []string) (map[string]*models.User, error) {
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.User, len(found))
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	return out, nil
}

// respondCached serves a success envelope from cache or builds, stores and
// serves it.
func respondCached(ctx *gin.Context, cache *utils.Cache, key string, load func() (interface{}, error)) {
	if b, ok := cache.GetBytes(ctx.Request.Context(), key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	data, err := load()
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	b, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: data})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	cache.SetBytes(ctx.Request.Context(), key, b)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// Cache key prefixes. Every post, like or comment mutation drops postsPrefix.
const (
	postsPrefix     = "cache:posts:"
	postsListPrefix = postsPrefix + "list:"
	postsDetailKey  = postsPrefix + "detail:"
	postsCountKey   = postsPrefix + "count"
)
