package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/utils"
)

// ContextUploadPathKey holds the local path of the accepted image, if any.
const ContextUploadPathKey = "upload_path"

// UploadedFile returns the temporary file written by ImageUpload.
func UploadedFile(ctx *gin.Context) (string, bool) {
	path := ctx.GetString(ContextUploadPathKey)
	return path, path != ""
}

// ImageUpload accepts an optional single image in the multipart field. The
// image is written to dir under a random name and removed once the handler
// chain has finished. Oversized or non-image files are rejected with 400.
func ImageUpload(field string, maxBytes int64, dir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Leave room for the other form fields on top of the file itself.
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes+64<<10)
		file, header, err := ctx.Request.FormFile(field)
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			ctx.Next()
			return
		case err != nil:
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				rejectTooLarge(ctx, maxBytes)
				return
			}
			rejectUpload(ctx, 40010, "invalid multipart payload")
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			rejectTooLarge(ctx, maxBytes)
			return
		}
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			rejectUpload(ctx, 40012, "Unsupported file format!")
			return
		}

		path, err := saveTemp(file, header, maxBytes, dir)
		if errors.Is(err, errTooLarge) {
			rejectTooLarge(ctx, maxBytes)
			return
		}
		if err != nil {
			utils.Fail(ctx, err)
			return
		}
		defer func() {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				utils.Logger.Warn("remove temp upload failed", zap.String("path", path), zap.Error(err))
			}
		}()

		ctx.Set(ContextUploadPathKey, path)
		ctx.Next()
	}
}

var errTooLarge = errors.New("upload exceeds size limit")

func saveTemp(src multipart.File, header *multipart.FileHeader, maxBytes int64, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	path := filepath.Join(dir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(out, &io.LimitedReader{R: src, N: maxBytes + 1})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > maxBytes {
		err = errTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func rejectUpload(ctx *gin.Context, code int, msg string) {
	utils.Error(ctx, http.StatusBadRequest, code, msg)
	ctx.Abort()
}

func rejectTooLarge(ctx *gin.Context, maxBytes int64) {
	limit := fmt.Sprintf("%d bytes", maxBytes)
	if maxBytes%(1<<20) == 0 {
		limit = fmt.Sprintf("%dMB", maxBytes>>20)
	}
	rejectUpload(ctx, 40011, "File too large! The maximum size is "+limit+".")
}
