package models

import (
	"time"
)

// CleanupTask asks the worker to delete a replaced media asset. Cleanup is
// fire-and-forget: a failed delete is logged and dropped, never retried into
// the request path.
type CleanupTask struct {
	ObjectName  string    `json:"object_name"`
	RequestedAt time.Time `json:"requested_at"`
}
