package middleware

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateObjectID(t *testing.T) {
	r := gin.New()
	r.GET("/posts/:id", ValidateObjectID("id"), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/posts/123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID.")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/posts/"+models.NewID(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	blacklist := utils.NewTokenBlacklist(nil)
	r := gin.New()
	r.GET("/me", AuthRequired(issuer, blacklist), func(ctx *gin.Context) {
		p, ok := CurrentPrincipal(ctx)
		require.True(t, ok)
		ctx.String(http.StatusOK, p.UserID)
	})

	good, err := issuer.Issue("u1", false)
	require.NoError(t, err)
	revoked, err := issuer.Issue("u2", false)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), revoked, time.Now().Add(time.Hour)))
	foreign, err := utils.NewTokenIssuer("other", time.Hour).Issue("u1", true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"malformed", "Bearer abc.def", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"revoked", "Bearer " + revoked, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), utils.MsgUnauthenticated)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	withPrincipal := func(p policy.Principal) gin.HandlerFunc {
		return func(ctx *gin.Context) { ctx.Set(ContextPrincipalKey, p) }
	}
	ok := func(ctx *gin.Context) { ctx.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/admin", withPrincipal(policy.Principal{UserID: "u1"}), Require(policy.CategoryList), ok)
	r.GET("/profile/:id", withPrincipal(policy.Principal{UserID: "u1"}), RequireParamOwner(policy.UserUpdate, "id"), ok)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/profile/u1", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/profile/u2", nil)).Code)
}

func multipartImage(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "hello"))
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImageUpload(t *testing.T) {
	dir := t.TempDir()
	var seen string
	r := gin.New()
	r.POST("/upload", ImageUpload("image", 1024, dir), func(ctx *gin.Context) {
		path, ok := UploadedFile(ctx)
		if ok {
			seen = path
			_, err := os.Stat(path)
			require.NoError(t, err, "file exists while the handler runs")
		}
		ctx.String(http.StatusOK, ctx.PostForm("title"))
	})

	t.Run("accepts image and cleans up", func(t *testing.T) {
		w := serve(r, multipartImage(t, "image", "a.PNG", "image/png", []byte("png")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello", w.Body.String())
		require.NotEmpty(t, seen)
		assert.Equal(t, ".png", seen[len(seen)-4:])
		assert.NoFileExists(t, seen)
	})

	t.Run("missing file is passed through", func(t *testing.T) {
		seen = ""
		w := serve(r, multipartImage(t, "", "", "", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, seen)
	})

	t.Run("rejects non images", func(t *testing.T) {
		w := serve(r, multipartImage(t, "image", "a.txt", "text/plain", []byte("hi")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unsupported file format!")
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		w := serve(r, multipartImage(t, "image", "a.png", "image/png", bytes.Repeat([]byte("x"), 2048)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "File too large!")
	})
}

func TestRateLimit(t *testing.T) {
	l := newIPLimiter(4)
	now := time.Now()
	assert.True(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("1.1.1.1", now))
	assert.False(t, l.allow("1.1.1.1", now), "burst is half the per-minute budget")
	assert.True(t, l.allow("2.2.2.2", now), "buckets are per ip")
	assert.True(t, l.allow("1.1.1.1", now.Add(time.Minute)))
}
