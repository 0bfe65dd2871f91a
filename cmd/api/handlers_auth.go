package main

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/internal/auth"
	"github.com/streamtube/streamtube/internal/metrics"
	"github.com/streamtube/streamtube/internal/middleware"
	"github.com/streamtube/streamtube/internal/storage"
	"github.com/streamtube/streamtube/pkg/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (api *API) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, access, int(api.accessTTL.Seconds()), "/", "", api.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, refresh, int(api.refreshTTL.Seconds()), "/", "", api.cookieSecure, true)
}

func (api *API) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", api.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", api.cookieSecure, true)
}

// saveAndUpload stages a multipart file on disk and pushes it to the media
// host. The temporary file is removed either way.
func (api *API) saveAndUpload(c *gin.Context, file *multipart.FileHeader) (*storage.Asset, error) {
	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		return nil, fmt.Errorf("failed to stage uploaded file: %w", err)
	}
	defer os.Remove(tempPath)

	return api.media.UploadFile(c.Request.Context(), tempPath)
}

// register creates a new user from a multipart form. The avatar image is
// required; the cover image is optional and a failed cover upload does not
// abort registration.
func (api *API) register(c *gin.Context) {
	ctx := c.Request.Context()

	fullName := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))

	if fullName == "" || email == "" || strings.TrimSpace(password) == "" || username == "" {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		api.fail(c, apperr.InvalidInput("all fields are required"))
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		api.fail(c, apperr.InvalidInput("avatar file is required"))
		return
	}

	exists, err := api.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, err)
		return
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		api.fail(c, apperr.Conflict("user with email or username already exists"))
		return
	}

	avatar, err := api.saveAndUpload(c, avatarFile)
	if err != nil {
		api.log.ErrorWithErr("avatar upload failed", err)
		metrics.MediaUploadsTotal.WithLabelValues("avatar", metrics.OutcomeError).Inc()
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		api.fail(c, apperr.InvalidInput("avatar file is required"))
		return
	}
	metrics.MediaUploadsTotal.WithLabelValues("avatar", metrics.OutcomeSuccess).Inc()

	var cover *storage.Asset
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		cover, err = api.saveAndUpload(c, coverFile)
		if err != nil {
			// Cover is optional: continue without it.
			api.log.WithError(err).Warn("cover image upload failed")
			metrics.MediaUploadsTotal.WithLabelValues("cover", metrics.OutcomeError).Inc()
			cover = nil
		} else {
			metrics.MediaUploadsTotal.WithLabelValues("cover", metrics.OutcomeSuccess).Inc()
		}
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, apperr.Internal("failed to process password", err))
		return
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		AvatarURL:    avatar.URL,
		AvatarID:     avatar.ObjectName,
	}
	if cover != nil {
		user.CoverImageURL = cover.URL
		user.CoverImageID = cover.ObjectName
	}

	if err := api.users.CreateUser(ctx, user); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, err)
		return
	}

	// Read back to confirm the record landed; the stored row is the source
	// of truth for the response.
	created, err := api.users.GetUserByID(ctx, user.ID)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, apperr.Internal("something went wrong while registering the user", err))
		return
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	api.log.WithUsername(created.Username).Info("user registered")
	respond(c, http.StatusCreated, created, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// login authenticates by username or email, rotates the stored refresh token
// and delivers the pair as cookies and JSON.
func (api *API) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.fail(c, apperr.InvalidInput("invalid request body"))
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		api.fail(c, apperr.InvalidInput("username or email is required"))
		return
	}

	user, err := api.users.GetUserByLogin(ctx, identifier)
	if err != nil {
		// An unknown identifier is a failed credential attempt; anything
		// else is a store failure and counts as an error.
		if apperr.From(err).Code == apperr.CodeNotFound {
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		api.fail(c, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		api.fail(c, apperr.Unauthorized("invalid user credentials"))
		return
	}

	access, refresh, err := api.tokens.IssuePair(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, apperr.Internal("failed to issue tokens", err))
		return
	}

	// Rotating the slot revokes whatever refresh token the previous session
	// held. Concurrent logins race here and the last write wins.
	if err := api.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, err)
		return
	}

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	api.log.WithUsername(user.Username).Info("user logged in")

	api.setAuthCookies(c, access, refresh)
	respond(c, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, "user logged in successfully")
}

// logout clears the stored refresh token and both cookies.
func (api *API) logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := api.users.UpdateRefreshToken(c.Request.Context(), userID, nil); err != nil {
		api.fail(c, err)
		return
	}

	api.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out")
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshToken exchanges a valid refresh token for a fresh pair. The incoming
// token must exactly match the stored slot; anything else is treated as
// expired or reused and the client has to log in again.
func (api *API) refreshToken(c *gin.Context) {
	ctx := c.Request.Context()

	incoming, _ := c.Cookie(refreshTokenCookie)
	if incoming == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.ShouldBindJSON(&body)
		incoming = body.RefreshToken
	}
	if incoming == "" {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		api.fail(c, apperr.Unauthorized("unauthorized request"))
		return
	}

	claims, err := api.tokens.VerifyRefresh(incoming)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		api.fail(c, apperr.Unauthorized("invalid refresh token"))
		return
	}

	user, err := api.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		api.fail(c, apperr.Unauthorized("invalid refresh token"))
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		api.fail(c, apperr.Unauthorized("refresh token is expired or used"))
		return
	}

	access, refresh, err := api.tokens.IssuePair(user)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, apperr.Internal("failed to issue tokens", err))
		return
	}

	if err := api.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		api.fail(c, err)
		return
	}

	metrics.TokenRefreshesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	api.setAuthCookies(c, access, refresh)
	respond(c, http.StatusOK, refreshResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, "access token refreshed")
}

// changePassword verifies the old password before replacing it.
func (api *API) changePassword(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.fail(c, apperr.InvalidInput("invalid request body"))
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		api.fail(c, apperr.InvalidInput("new password is required"))
		return
	}

	user, err := api.users.GetUserByID(ctx, userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	if !auth.CheckPassword(req.OldPassword, user.PasswordHash) {
		api.fail(c, apperr.Unauthorized("invalid old password"))
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		api.fail(c, apperr.Internal("failed to process password", err))
		return
	}

	if err := api.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		api.fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}
