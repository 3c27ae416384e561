package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/utils"
)

// Require evaluates an action whose rule needs no resource owner.
func Require(action policy.Action) gin.HandlerFunc {
	return authorize(action, func(*gin.Context) string { return "" })
}

// RequireParamOwner evaluates an action whose owner is the user id in the
// named path parameter, as for profile routes.
func RequireParamOwner(action policy.Action, param string) gin.HandlerFunc {
	return authorize(action, func(ctx *gin.Context) string { return ctx.Param(param) })
}

func authorize(action policy.Action, owner func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, _ := CurrentPrincipal(ctx)
		if err := policy.Authorize(p, action, owner(ctx)); err != nil {
			utils.Fail(ctx, err)
			return
		}
		ctx.Next()
	}
}
