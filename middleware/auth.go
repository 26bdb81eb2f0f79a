package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aeroforge/aerobbs/utils"
)

const (
	// ContextUserIDKey stores the authenticated user id in the gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username in the gin context.
	ContextUsernameKey = "username"
	// ContextRoleKey stores the user role in the gin context.
	ContextRoleKey = "role"
)

// bearerToken extracts the token from an Authorization header, or returns
// false with an app error code describing what was wrong.
func bearerToken(header string) (string, int, bool) {
	if header == "" {
		return "", 40101, false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", 40102, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", 40103, false
	}
	return token, 0, true
}

// AuthRequired ensures the request carries a valid, non-revoked bearer JWT
// and publishes the caller identity into the gin context.
func AuthRequired() gin.HandlerFunc {
	messages := map[int]string{
		40101: "authorization header missing",
		40102: "invalid authorization header format",
		40103: "empty bearer token",
	}
	return func(ctx *gin.Context) {
		token, code, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, code, messages[code])
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextRoleKey, claims.Role)
		ctx.Next()
	}
}
