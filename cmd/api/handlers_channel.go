package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/internal/middleware"
	"github.com/streamtube/streamtube/pkg/models"
)

// channelProfile returns the public projection of a channel with its
// subscription aggregates. Anonymous lookups are served from the cache when
// possible; authenticated lookups always hit the store because isSubscribed
// depends on the viewer.
func (api *API) channelProfile(c *gin.Context) {
	ctx := c.Request.Context()

	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == "" {
		api.fail(c, apperr.InvalidInput("username is missing"))
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	if viewerID == "" {
		if cached, err := api.cache.GetChannelProfile(ctx, username); err != nil {
			api.log.WithError(err).Warn("channel profile cache read failed")
		} else if cached != nil {
			respond(c, http.StatusOK, cached, "channel profile fetched successfully")
			return
		}
	}

	profile, err := api.channels.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		api.fail(c, err)
		return
	}

	if viewerID == "" {
		if err := api.cache.SetChannelProfile(ctx, profile, api.profileTTL); err != nil {
			api.log.WithError(err).Warn("channel profile cache write failed")
		}
	}

	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

// watchHistory returns the user's watch history in stored order, each entry
// joined to its video and the video's owner.
func (api *API) watchHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	entries, err := api.channels.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		api.fail(c, err)
		return
	}
	if entries == nil {
		entries = []*models.WatchHistoryEntry{}
	}

	respond(c, http.StatusOK, entries, "watch history fetched successfully")
}

// toggleSubscription subscribes the user to a channel or removes an existing
// subscription.
func (api *API) toggleSubscription(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.GetUserID(c)

	// The id column is a uuid; reject malformed ids before they reach the
	// store, where they would fail to encode at all.
	channelID := strings.TrimSpace(c.Param("channelId"))
	if _, err := uuid.Parse(channelID); err != nil {
		api.fail(c, apperr.InvalidInput("invalid channel id"))
		return
	}
	if channelID == userID {
		api.fail(c, apperr.InvalidInput("cannot subscribe to your own channel"))
		return
	}

	channel, err := api.users.GetUserByID(ctx, channelID)
	if err != nil {
		api.fail(c, err)
		return
	}

	subscribed, err := api.channels.ToggleSubscription(ctx, userID, channel.ID)
	if err != nil {
		api.fail(c, err)
		return
	}

	api.invalidateProfile(c, channel.Username)
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, "subscription updated")
}
