package mediaapi

import (
	"fmt"
	"time"
)

// UploadResponse is the server's acknowledgement of a multipart upload.
// Processing continues in the background; poll by UploadID for the outcome.
type UploadResponse struct {
	UploadID      string    `json:"uploadId"`
	FileName      string    `json:"fileName"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	UploadedAt    time.Time `json:"uploadedAt"`
	SignalRHubURL string    `json:"signalRHubUrl,omitempty"`
}

// StatusResponse is the server-side projection of a processing job. URL is
// populated for image uploads and reel videos; VideoURL/ThumbnailURL for post
// videos. Fields other than UploadID, FileName, and Status are optional.
type StatusResponse struct {
	UploadID           string `json:"uploadId"`
	FileName           string `json:"fileName"`
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	ProgressPercentage *int   `json:"progressPercentage,omitempty"`
	URL                string `json:"url,omitempty"`
	VideoURL           string `json:"videoUrl,omitempty"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	Duration           string `json:"duration,omitempty"`
	FailureReason      string `json:"failureReason,omitempty"`
}

// StatusError reports a non-success HTTP response, preserving the server's
// status code and message for the caller.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("server returned HTTP %d: %s", e.Code, e.Message)
}
