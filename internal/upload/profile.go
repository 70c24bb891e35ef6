package upload

import (
	"fmt"
	"io"
	"strings"

	"mediaup/internal/config"
	"mediaup/internal/services"
)

// Profile names an upload context. Each profile binds a media kind, a size
// ceiling, a MIME allow-list, and whether a thumbnail URL must accompany the
// completed result.
type Profile string

const (
	ProfileReelVideo Profile = "reel-video"
	ProfilePostVideo Profile = "post-video"
	ProfileImage     Profile = "image"
)

// ParseProfile converts a user-supplied profile name into a known Profile.
func ParseProfile(value string) (Profile, bool) {
	switch Profile(strings.ToLower(strings.TrimSpace(value))) {
	case ProfileReelVideo:
		return ProfileReelVideo, true
	case ProfilePostVideo:
		return ProfilePostVideo, true
	case ProfileImage:
		return ProfileImage, true
	}
	return "", false
}

// Kind selects the upload endpoint for a profile.
type Kind int

const (
	KindVideo Kind = iota
	KindImage
)

// Policy bounds a single upload context. AllowedTypes is part of the wire
// protocol and fixed per kind; MaxSizeBytes is configurable.
type Policy struct {
	Kind              Kind
	MaxSizeBytes      int64
	AllowedTypes      []string
	RequiresThumbnail bool
}

var videoTypes = []string{
	"video/mp4",
	"video/avi",
	"video/quicktime",
	"video/x-msvideo",
	"video/webm",
}

var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

// Policies derives the per-profile upload policies from configuration. Only
// post videos require a thumbnail; reel videos and images complete with a
// single media URL.
func Policies(cfg *config.Config) map[Profile]Policy {
	return map[Profile]Policy{
		ProfileReelVideo: {
			Kind:         KindVideo,
			MaxSizeBytes: int64(cfg.Uploads.ReelVideo.MaxSizeMB) << 20,
			AllowedTypes: videoTypes,
		},
		ProfilePostVideo: {
			Kind:              KindVideo,
			MaxSizeBytes:      int64(cfg.Uploads.PostVideo.MaxSizeMB) << 20,
			AllowedTypes:      videoTypes,
			RequiresThumbnail: true,
		},
		ProfileImage: {
			Kind:         KindImage,
			MaxSizeBytes: int64(cfg.Uploads.Image.MaxSizeMB) << 20,
			AllowedTypes: imageTypes,
		},
	}
}

// Request describes a single file to upload. Size must be the exact byte
// count of Body; the pre-flight check runs before any bytes are sent.
type Request struct {
	Profile     Profile
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (r *Request) validate(policy Policy) error {
	if strings.TrimSpace(r.FileName) == "" {
		return services.Wrap(services.ErrValidation, "upload", "validate", "file name is required", nil)
	}
	if r.Body == nil {
		return services.Wrap(services.ErrValidation, "upload", "validate", "file body is required", nil)
	}
	if r.Size <= 0 {
		return services.Wrap(services.ErrValidation, "upload", "validate", "file is empty", nil)
	}
	if policy.MaxSizeBytes > 0 && r.Size > policy.MaxSizeBytes {
		limitMB := policy.MaxSizeBytes >> 20
		return services.Wrap(services.ErrValidation, "upload", "validate",
			fmt.Sprintf("file size %d bytes exceeds %dMB limit for profile %s", r.Size, limitMB, r.Profile), nil)
	}
	contentType := normalizeContentType(r.ContentType)
	if !containsType(policy.AllowedTypes, contentType) {
		return services.Wrap(services.ErrValidation, "upload", "validate",
			fmt.Sprintf("content type %q is not allowed for profile %s", r.ContentType, r.Profile), nil)
	}
	return nil
}

// normalizeContentType lowercases the type, strips parameters, and maps the
// common image/jpg alias onto the registered image/jpeg.
func normalizeContentType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	if value == "image/jpg" {
		return "image/jpeg"
	}
	return value
}

func containsType(allowed []string, contentType string) bool {
	for _, candidate := range allowed {
		if candidate == contentType {
			return true
		}
	}
	return false
}
