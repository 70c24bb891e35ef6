package journal

import (
	"time"

	"mediaup/internal/upload"
)

// Attempt is one recorded upload. UploadID is the server-side identifier and
// is unique per attempt; ID is the local row key.
type Attempt struct {
	ID            string
	UploadID      string
	Profile       upload.Profile
	FileName      string
	Title         string
	SizeBytes     int64
	State         upload.State
	Message       string
	MediaURL      string
	ThumbnailURL  string
	Duration      string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Resolved reports whether the attempt reached a terminal state.
func (a *Attempt) Resolved() bool {
	return a.State.IsTerminal()
}
