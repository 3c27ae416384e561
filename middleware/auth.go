package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blogforge/blogd/policy"
	"github.com/blogforge/blogd/utils"
)

const (
	// ContextPrincipalKey stores the authenticated policy.Principal in Gin context.
	ContextPrincipalKey = "principal"
	// ContextTokenKey stores the raw bearer token for logout.
	ContextTokenKey = "token"
	// ContextClaimsKey stores the decoded *utils.Claims.
	ContextClaimsKey = "claims"
)

// AuthRequired ensures the request carries a valid, unrevoked bearer token.
// Every failure answers the same generic 401.
func AuthRequired(issuer *utils.TokenIssuer, blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			deny(ctx)
			return
		}
		if blacklist != nil && blacklist.IsRevoked(ctx.Request.Context(), token) {
			deny(ctx)
			return
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			deny(ctx)
			return
		}

		ctx.Set(ContextPrincipalKey, policy.Principal{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func deny(ctx *gin.Context) {
	utils.Error(ctx, http.StatusUnauthorized, 40101, utils.MsgUnauthenticated)
	ctx.Abort()
}

// CurrentPrincipal returns the identity stored by AuthRequired.
func CurrentPrincipal(ctx *gin.Context) (policy.Principal, bool) {
	v, ok := ctx.Get(ContextPrincipalKey)
	if !ok {
		return policy.Principal{}, false
	}
	p, ok := v.(policy.Principal)
	return p, ok
}
