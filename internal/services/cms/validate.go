package cms

import (
	"fmt"
	"regexp"
	"strings"

	"mediaup/internal/services"
)

// durationPattern matches HH:MM:SS durations, optionally with leading days
// and fractional seconds, as the posts endpoints expect.
var durationPattern = regexp.MustCompile(`^-?(\d+\.)?\d{2}:\d{2}:\d{2}(\.\d{1,7})?$`)

// Validate checks the request against the posts endpoint rules before any
// bytes are sent.
func (r *VideoPostRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return validationError("title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return validationError("content is required")
	}
	if strings.TrimSpace(r.VideoThumbnailURL) == "" {
		return validationError("video thumbnail url is required")
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return validationError("category id is required")
	}
	if r.VideoURL != "" && r.VideoEmbedCode == "" {
		return validationError("embed code is required when using an external video url")
	}
	if r.VideoURL == "" && len(r.VideoFileURLs) == 0 {
		return validationError("either a video url or video files must be provided")
	}
	if r.Duration != "" && !durationPattern.MatchString(r.Duration) {
		return validationError(fmt.Sprintf("duration %q must be in HH:MM:SS form", r.Duration))
	}
	switch r.Language {
	case LanguageEnglish, LanguageArabic:
	default:
		return validationError(fmt.Sprintf("language %q must be %s or %s", r.Language, LanguageEnglish, LanguageArabic))
	}
	switch r.Status {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
	default:
		return validationError(fmt.Sprintf("status %q must be %s, %s, or %s",
			r.Status, PostStatusDraft, PostStatusScheduled, PostStatusPublished))
	}
	return nil
}

func validationError(message string) error {
	return services.Wrap(services.ErrValidation, "cms", "create video post", message, nil)
}
