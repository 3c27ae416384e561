package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/utils"
)

// ValidateObjectID rejects requests whose path parameter is not a well-formed id.
func ValidateObjectID(param string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !models.IsValidID(ctx.Param(param)) {
			utils.Error(ctx, http.StatusBadRequest, 40001, "Invalid ID.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
