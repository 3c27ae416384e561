package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/store"
	"github.com/blogforge/blogd/validation"
)

// Client-facing messages for the generic error kinds.
const (
	MsgUnauthenticated = "Unauthorized! Please provide valid credentials (Token)."
	MsgAdminOnly       = "Unauthorized! Only admins can perform this operation."
	MsgForbidden       = "Forbidden! You are not allowed to perform this operation."
	MsgImageHost       = "Server error! Could not process the image, try again later."
	MsgInternal        = "internal server error"
)

// APIError is an error that already knows how it should be rendered.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func BadRequest(code int, msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: msg}
}

func Unauthorized(code int, msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: code, Message: msg}
}

func Forbidden(code int, msg string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: code, Message: msg}
}

func NotFound(code int, msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: code, Message: msg}
}

func Internal(code int, msg string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: code, Message: msg}
}

// Fail renders err as an error envelope and aborts the chain. Known sentinels
// map to their status; anything else is logged and hidden behind a 500.
func Fail(ctx *gin.Context, err error) {
	var apiErr *APIError
	var verr *validation.Error
	switch {
	case errors.As(err, &apiErr):
		Error(ctx, apiErr.Status, apiErr.Code, apiErr.Message)
	case errors.As(err, &verr):
		Error(ctx, http.StatusBadRequest, 40000, verr.Message)
	case errors.Is(err, policy.ErrUnauthenticated):
		Error(ctx, http.StatusUnauthorized, 40100, MsgAdminOnly)
	case errors.Is(err, policy.ErrForbidden):
		Error(ctx, http.StatusForbidden, 40300, MsgForbidden)
	case errors.Is(err, store.ErrNotFound):
		Error(ctx, http.StatusNotFound, 40400, "404! Resource not found.")
	case errors.Is(err, imagehost.ErrUpload), errors.Is(err, imagehost.ErrDelete):
		Logger.Error("image host failure", zap.String("path", ctx.FullPath()), zap.Error(err))
		Error(ctx, http.StatusInternalServerError, 50200, MsgImageHost)
	default:
		Logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		Error(ctx, http.StatusInternalServerError, 50000, MsgInternal)
	}
	ctx.Abort()
}
