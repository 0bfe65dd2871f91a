package main

import (
	"context"
	"time"

	"github.com/streamtube/streamtube/internal/auth"
	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/storage"
	"github.com/streamtube/streamtube/pkg/models"
)

// userStore is the slice of the credential store the auth handlers need.
// *database.Repository satisfies it; tests use an in-memory fake.
type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, identifier string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, url, objectName string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, url, objectName string) (*models.User, error)
}

// channelStore serves the read-only aggregation endpoints plus the
// subscription toggle.
type channelStore interface {
	GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error)
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// mediaStore is the media host contract used by registration and profile
// image updates.
type mediaStore interface {
	UploadFile(ctx context.Context, localPath string) (*storage.Asset, error)
}

// cleanupPublisher queues replaced assets for deletion. Errors are logged
// and swallowed; cleanup never fails a request.
type cleanupPublisher interface {
	PublishCleanup(ctx context.Context, task *models.CleanupTask) error
}

// profileCache caches the channel-profile projection for anonymous viewers.
type profileCache interface {
	GetChannelProfile(ctx context.Context, username string) (*models.ChannelProfile, error)
	SetChannelProfile(ctx context.Context, profile *models.ChannelProfile, ttl time.Duration) error
	InvalidateChannelProfile(ctx context.Context, username string) error
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// API holds the handler dependencies
type API struct {
	users    userStore
	channels channelStore
	media    mediaStore
	cleanup  cleanupPublisher
	cache    profileCache
	db       healthChecker
	tokens   *auth.TokenService
	log      *logging.Logger

	cookieSecure bool
	accessTTL    time.Duration
	refreshTTL   time.Duration
	profileTTL   time.Duration
}
