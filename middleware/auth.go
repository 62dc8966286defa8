package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sldmxm/yatube-final/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw token for logout revocation.
	ContextTokenKey = "auth_token"

	// LoginPath is where unauthenticated browsers are sent, carrying the
	// original path in the next parameter.
	LoginPath = "/auth/login"
)

// tokenFromRequest extracts the session token from the auth cookie or a
// Bearer authorization header.
func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(utils.AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired guards a route: requests without a valid session are
// redirected to the login page with next set to the original URL. This is a
// navigation outcome, not an error response.
func AuthRequired(blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, token := authenticate(ctx, blacklist)
		if claims == nil {
			next := url.QueryEscape(ctx.Request.URL.RequestURI())
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+next)
			ctx.Abort()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// OptionalAuth populates the caller identity when a valid session is present
// and lets the request through either way. Public pages use it to compute
// caller-specific flags such as following.
func OptionalAuth(blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, token := authenticate(ctx, blacklist); claims != nil {
			ctx.Set(ContextUserIDKey, claims.UserID)
			ctx.Set(ContextUsernameKey, claims.Username)
			ctx.Set(ContextTokenKey, token)
		}
		ctx.Next()
	}
}

func authenticate(ctx *gin.Context, blacklist *utils.TokenBlacklist) (*utils.Claims, string) {
	token := tokenFromRequest(ctx)
	if token == "" {
		return nil, ""
	}
	if blacklist.IsRevoked(token) {
		return nil, ""
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, ""
	}
	return claims, token
}
