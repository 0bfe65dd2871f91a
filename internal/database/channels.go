package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/pkg/models"
)

// GetChannelProfile resolves a channel by username and computes its
// subscription aggregates in one query. viewerID may be empty for anonymous
// requests, in which case isSubscribed is always false.
func (r *Repository) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	query := `
		SELECT u.id, u.full_name, u.username, u.email, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       EXISTS(
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = NULLIF($2, '')::uuid
		       ) AS is_subscribed
		FROM users u
		WHERE u.username = LOWER($1)
	`

	var profile models.ChannelProfile
	err := r.db.Pool.QueryRow(ctx, query, username, viewerID).Scan(
		&profile.ID, &profile.FullName, &profile.Username, &profile.Email,
		&profile.AvatarURL, &profile.CoverImageURL,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &profile, nil
}

// AppendWatchHistory records a playback at the end of the user's history.
// Rewatching a video appends another row; history keeps duplicates in order.
func (r *Repository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)`

	if _, err := r.db.Pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}

	return nil
}

// GetWatchHistory returns the user's watch history joined to each video and
// its owner, in stored order. Duplicate video ids yield duplicate entries.
func (r *Repository) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error) {
	query := `
		SELECT v.id, v.owner_id, v.video_file_url, v.thumbnail_url, v.title, v.description,
		       v.duration, v.views, v.is_published, v.created_at,
		       o.full_name, o.username, o.avatar_url
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users o  ON o.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.position
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	var entries []*models.WatchHistoryEntry
	for rows.Next() {
		var entry models.WatchHistoryEntry
		err := rows.Scan(
			&entry.ID, &entry.OwnerID, &entry.VideoFileURL, &entry.ThumbnailURL,
			&entry.Title, &entry.Description, &entry.Duration, &entry.Views,
			&entry.IsPublished, &entry.CreatedAt,
			&entry.Owner.FullName, &entry.Owner.Username, &entry.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return entries, nil
}
