package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/streamtube/streamtube/internal/auth"
)

const (
	// AuthContextKey holds the authenticated user's id.
	AuthContextKey = "user_id"
	// UsernameContextKey holds the authenticated user's username.
	UsernameContextKey = "username"

	accessTokenCookie = "accessToken"
)

// extractAccessToken pulls the access token from the Authorization header or
// the accessToken cookie. Browser clients rely on the cookie; API clients use
// the Bearer header.
func extractAccessToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

// RequireAuth validates the access token and aborts with 401 when it is
// missing or invalid.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "unauthorized request",
				"success":    false,
				"errors":     []string{},
			})
			c.Abort()
			return
		}

		claims, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "invalid access token",
				"success":    false,
				"errors":     []string{},
			})
			c.Abort()
			return
		}

		c.Set(AuthContextKey, claims.UserID)
		c.Set(UsernameContextKey, claims.Username)
		c.Next()
	}
}

// OptionalAuth validates the access token when present but lets anonymous
// requests through. Used by public endpoints whose response varies with the
// viewer, like channel profiles.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString != "" {
			if claims, err := tokens.VerifyAccess(tokenString); err == nil {
				c.Set(AuthContextKey, claims.UserID)
				c.Set(UsernameContextKey, claims.Username)
			}
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's id from the context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(AuthContextKey)
	if !exists {
		return "", false
	}

	userIDStr, ok := userID.(string)
	return userIDStr, ok
}
