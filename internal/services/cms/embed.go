package cms

import (
	"fmt"
	"net/url"
	"strings"
)

// EmbedCode derives an iframe embed snippet from a YouTube or Vimeo URL.
// Other hosts return false; their posts must supply an embed code directly.
func EmbedCode(videoURL string, width, height int) (string, bool) {
	if width <= 0 {
		width = 560
	}
	if height <= 0 {
		height = 315
	}

	parsed, err := url.Parse(videoURL)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())

	if strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") {
		var videoID string
		if strings.Contains(host, "youtu.be") {
			videoID = strings.Trim(parsed.Path, "/")
		} else {
			videoID = parsed.Query().Get("v")
		}
		if videoID == "" {
			return "", false
		}
		return fmt.Sprintf(
			`<iframe width="%d" height="%d" src="https://www.youtube.com/embed/%s" frameborder="0" allowfullscreen></iframe>`,
			width, height, videoID), true
	}

	if strings.Contains(host, "vimeo.com") {
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		videoID := segments[len(segments)-1]
		if videoID == "" {
			return "", false
		}
		return fmt.Sprintf(
			`<iframe src="https://player.vimeo.com/video/%s" width="%d" height="%d" frameborder="0" allowfullscreen></iframe>`,
			videoID, width, height), true
	}

	return "", false
}
