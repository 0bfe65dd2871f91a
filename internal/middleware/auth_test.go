package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamtube/streamtube/internal/auth"
	"github.com/streamtube/streamtube/internal/config"
	"github.com/streamtube/streamtube/pkg/models"
)

func testTokens() *auth.TokenService {
	return auth.NewTokenService(config.AuthConfig{
		AccessTokenSecret:  "access-test-secret",
		RefreshTokenSecret: "refresh-test-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    240 * time.Hour,
	})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "Missing authorization",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid header format",
			header:         "InvalidToken",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage bearer token",
			header:         "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c.Request = req

			RequireAuth(tokens)(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestRequireAuthWithValidBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
	token, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.Request = req

	RequireAuth(tokens)(c)

	assert.False(t, c.IsAborted())
	userID, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestRequireAuthWithCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()

	user := &models.User{ID: "user-2", Username: "bob"}
	token, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	c.Request = req

	RequireAuth(tokens)(c)

	assert.False(t, c.IsAborted())
	userID, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "user-2", userID)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()

	// A refresh token must not grant API access.
	refresh, err := tokens.IssueRefreshToken(&models.User{ID: "user-3"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	c.Request = req

	RequireAuth(tokens)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()

	t.Run("anonymous passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/test", nil)

		OptionalAuth(tokens)(c)

		assert.False(t, c.IsAborted())
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})

	t.Run("valid token identifies viewer", func(t *testing.T) {
		token, err := tokens.IssueAccessToken(&models.User{ID: "user-4", Username: "carol"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		c.Request = req

		OptionalAuth(tokens)(c)

		assert.False(t, c.IsAborted())
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, "user-4", userID)
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		c.Request = req

		OptionalAuth(tokens)(c)

		assert.False(t, c.IsAborted())
		_, ok := GetUserID(c)
		assert.False(t, ok)
	})
}
