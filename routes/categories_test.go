package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/models"
)

func TestCategoriesRequireAdmin(t *testing.T) {
	env := newEnv(t)
	_, userToken := env.user("vera", false)
	admin, adminToken := env.user("root", true)

	w, resp := env.do(http.MethodPost, "/api/categories", userToken, map[string]string{"name": "golang"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized! Only admins can perform this operation.", resp.Message)
	w, _ = env.do(http.MethodGet, "/api/categories", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = env.do(http.MethodDelete, "/api/categories/"+models.NewID(), userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = env.do(http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "  golang "})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)
	var created models.Category
	decode(t, resp, &created)
	assert.Equal(t, "golang", created.Name)
	assert.Equal(t, admin.ID, created.AuthorID)

	w, resp = env.do(http.MethodPost, "/api/categories", adminToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `"name" is required`, resp.Message)

	w, resp = env.do(http.MethodGet, "/api/categories", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Category
	decode(t, resp, &list)
	assert.Len(t, list, 1)

	w, _ = env.do(http.MethodDelete, "/api/categories/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(http.MethodDelete, "/api/categories/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
