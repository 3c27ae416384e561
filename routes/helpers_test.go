package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/imagehost/imagehosttest"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/store/memstore"
	"github.com/blogforge/blogd/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	t      *testing.T
	r      *gin.Engine
	st     *store.Store
	images *imagehosttest.Fake
	tokens *utils.TokenIssuer
}

func newEnv(t *testing.T, tweak ...func(*config.AppConfig)) *testEnv {
	t.Helper()
	return buildEnv(t, utils.NewCache(nil, 0), tweak...)
}

// newCachedEnv backs the response cache with an in-process Redis server.
func newCachedEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return buildEnv(t, utils.NewCache(rc, time.Minute))
}

func buildEnv(t *testing.T, cache *utils.Cache, tweak ...func(*config.AppConfig)) *testEnv {
	t.Helper()
	cfg := config.AppConfig{
		GinMode:            "test",
		JWTSecret:          "test-secret",
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 10000,
		UploadDir:          t.TempDir(),
		UploadMaxBytes:     1 << 20,
		PostsPerPage:       3,
	}
	for _, f := range tweak {
		f(&cfg)
	}
	env := &testEnv{
		t:      t,
		st:     memstore.New(),
		images: &imagehosttest.Fake{},
		tokens: utils.NewTokenIssuer(cfg.JWTSecret, 30*24*time.Hour),
	}
	env.r = SetupRouter(Deps{
		Config:    cfg,
		Store:     env.st,
		Images:    env.images,
		Tokens:    env.tokens,
		Blacklist: utils.NewTokenBlacklist(nil),
		Cache:     cache,
	})
	return env
}

func (e *testEnv) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	var env envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (e *testEnv) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.send(req, token)
}

// upload sends a multipart form; an empty filename omits the image part.
func (e *testEnv) upload(method, path, token string, fields map[string]string, filename string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(e.t, err)
		_, err = part.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.send(req, token)
}

// user stores an account directly and returns it with a valid token.
func (e *testEnv) user(name string, admin bool) (*models.User, string) {
	e.t.Helper()
	u := &models.User{
		Email:    name + "@example.com",
		Username: name,
		IsAdmin:  admin,
		Avatar:   models.DefaultAvatar(),
	}
	require.NoError(e.t, e.st.Users.Create(context.Background(), u))
	token, err := e.tokens.Issue(u.ID, admin)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) createPost(token, title, category string) models.Post {
	e.t.Helper()
	w, resp := e.upload(http.MethodPost, "/api/posts/create-post", token, map[string]string{
		"title":    title,
		"body":     "a body that is long enough",
		"category": category,
	}, "cover.png")
	require.Equal(e.t, http.StatusCreated, w.Code, resp.Message)
	var post models.Post
	decode(e.t, resp, &post)
	return post
}

func (e *testEnv) comment(token, postID, text string) models.Comment {
	e.t.Helper()
	w, resp := e.do(http.MethodPost, "/api/comments", token, map[string]string{"post_id": postID, "text": text})
	require.Equal(e.t, http.StatusCreated, w.Code, resp.Message)
	var c models.Comment
	decode(e.t, resp, &c)
	return c
}

func decode(t *testing.T, resp envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
