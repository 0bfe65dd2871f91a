package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/internal/metrics"
	"github.com/streamtube/streamtube/internal/middleware"
	"github.com/streamtube/streamtube/pkg/models"
)

// getCurrentUser returns the authenticated user's own record.
func (api *API) getCurrentUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := api.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user, "current user fetched successfully")
}

// updateAccount replaces the user's full name and email.
func (api *API) updateAccount(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.fail(c, apperr.InvalidInput("invalid request body"))
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		api.fail(c, apperr.InvalidInput("all fields are required"))
		return
	}

	user, err := api.users.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateProfile(c, user.Username)
	respond(c, http.StatusOK, user, "account details updated successfully")
}

// updateAvatar replaces the avatar and queues the previous asset for
// deletion at the media host.
func (api *API) updateAvatar(c *gin.Context) {
	api.updateImage(c, "avatar")
}

// updateCoverImage replaces the cover image and queues the previous asset
// for deletion at the media host.
func (api *API) updateCoverImage(c *gin.Context) {
	api.updateImage(c, "coverImage")
}

func (api *API) updateImage(c *gin.Context, field string) {
	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	file, err := c.FormFile(field)
	if err != nil {
		api.fail(c, apperr.InvalidInput(field+" file is required"))
		return
	}

	// Fetch first so the replaced object name is known for cleanup.
	current, err := api.users.GetUserByID(ctx, userID)
	if err != nil {
		api.fail(c, err)
		return
	}

	asset, err := api.saveAndUpload(c, file)
	if err != nil {
		api.log.ErrorWithErr(field+" upload failed", err)
		metrics.MediaUploadsTotal.WithLabelValues(field, metrics.OutcomeError).Inc()
		api.fail(c, apperr.Internal("failed to upload "+field, err))
		return
	}
	metrics.MediaUploadsTotal.WithLabelValues(field, metrics.OutcomeSuccess).Inc()

	var user *models.User
	var oldObject string
	if field == "avatar" {
		oldObject = current.AvatarID
		user, err = api.users.UpdateAvatar(ctx, userID, asset.URL, asset.ObjectName)
	} else {
		oldObject = current.CoverImageID
		user, err = api.users.UpdateCoverImage(ctx, userID, asset.URL, asset.ObjectName)
	}
	if err != nil {
		api.fail(c, err)
		return
	}

	api.scheduleCleanup(c, oldObject)
	api.invalidateProfile(c, user.Username)
	respond(c, http.StatusOK, user, field+" updated successfully")
}

// scheduleCleanup queues the replaced asset for deletion. Best-effort: a
// publish failure is logged and the request still succeeds.
func (api *API) scheduleCleanup(c *gin.Context, objectName string) {
	if objectName == "" {
		return
	}

	task := &models.CleanupTask{ObjectName: objectName, RequestedAt: time.Now()}
	if err := api.cleanup.PublishCleanup(c.Request.Context(), task); err != nil {
		api.log.WithError(err).WithField("object", objectName).Warn("failed to queue asset cleanup")
	}
}

func (api *API) invalidateProfile(c *gin.Context, username string) {
	if err := api.cache.InvalidateChannelProfile(c.Request.Context(), username); err != nil {
		api.log.WithError(err).WithUsername(username).Warn("failed to invalidate channel profile cache")
	}
}
