package models

import (
	"time"
)

// Video is the join target for watch-history lookups. Video uploads and
// publishing are handled by the video service; this backend only reads them.
type Video struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"-" db:"owner_id"`
	VideoFileURL string    `json:"videoFile" db:"video_file_url"`
	ThumbnailURL string    `json:"thumbnail" db:"thumbnail_url"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Duration     float64   `json:"duration" db:"duration"`
	Views        int64     `json:"views" db:"views"`
	IsPublished  bool      `json:"isPublished" db:"is_published"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// VideoOwner is the public projection of a video's owner.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// WatchHistoryEntry is one enriched record of a user's watch history. Owner
// is a single object, not a list, even though it comes from a join.
type WatchHistoryEntry struct {
	Video
	Owner VideoOwner `json:"owner"`
}
