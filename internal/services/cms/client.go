package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mediaup/internal/services"
)

// Client talks to the CMS posts and reels endpoints.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a CMS client. The timeout bounds each individual request.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: timeout},
	}
}

// CreateVideoPost validates and submits a video post to a category.
func (c *Client) CreateVideoPost(ctx context.Context, categoryID string, req VideoPostRequest) (*VideoPost, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, services.Wrap(services.ErrValidation, "cms", "create video post", "category id is required", nil)
	}
	req.CategoryID = categoryID
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var post VideoPost
	path := fmt.Sprintf("/posts/categories/%s/videos", url.PathEscape(categoryID))
	if err := c.do(ctx, http.MethodPost, path, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetVideoPost fetches a video post by identifier.
func (c *Client) GetVideoPost(ctx context.Context, postID string) (*VideoPost, error) {
	var post VideoPost
	if err := c.do(ctx, http.MethodGet, "/posts/videos/"+url.PathEscape(postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteVideoPost removes a video post.
func (c *Client) DeleteVideoPost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/videos/"+url.PathEscape(postID), nil, nil)
}

// CreateReel submits a reel built from an already-processed video URL.
func (c *Client) CreateReel(ctx context.Context, req ReelRequest) (*Reel, error) {
	if strings.TrimSpace(req.VideoURL) == "" {
		return nil, services.Wrap(services.ErrValidation, "cms", "create reel", "video url is required", nil)
	}

	var reel Reel
	if err := c.do(ctx, http.MethodPost, "/reels", req, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

// GetReel fetches a reel by identifier.
func (c *Client) GetReel(ctx context.Context, reelID string) (*Reel, error) {
	var reel Reel
	if err := c.do(ctx, http.MethodGet, "/reels/"+url.PathEscape(reelID), nil, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

// ListReels returns a page of reels matching the params.
func (c *Client) ListReels(ctx context.Context, params ReelListParams) (*ReelPage, error) {
	query := url.Values{}
	if params.PageNumber > 0 {
		query.Set("PageNumber", strconv.Itoa(params.PageNumber))
	}
	if params.PageSize > 0 {
		query.Set("PageSize", strconv.Itoa(params.PageSize))
	}
	if params.SortBy != "" {
		query.Set("SortBy", params.SortBy)
	}
	if params.SortDirection != "" {
		query.Set("SortDirection", params.SortDirection)
	}
	if params.SearchPhrase != "" {
		query.Set("SearchPhrase", params.SearchPhrase)
	}
	if params.UserID != "" {
		query.Set("UserId", params.UserID)
	}
	if params.IsPublished != nil {
		query.Set("IsPublished", strconv.FormatBool(*params.IsPublished))
	}

	path := "/reels"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var page ReelPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PublishReel makes a reel visible to users.
func (c *Client) PublishReel(ctx context.Context, reelID string) (*Reel, error) {
	var reel Reel
	if err := c.do(ctx, http.MethodPost, "/reels/"+url.PathEscape(reelID)+"/publish", nil, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

// UnpublishReel hides a reel from users.
func (c *Client) UnpublishReel(ctx context.Context, reelID string) (*Reel, error) {
	var reel Reel
	if err := c.do(ctx, http.MethodPost, "/reels/"+url.PathEscape(reelID)+"/unpublish", nil, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

// DeleteReel removes a reel.
func (c *Client) DeleteReel(ctx context.Context, reelID string) error {
	return c.do(ctx, http.MethodDelete, "/reels/"+url.PathEscape(reelID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "cms", method+" "+path, "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return services.Wrap(services.ErrTransport, "cms", method+" "+path, readAPIError(resp), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readAPIError extracts a human-readable message from an error response,
// preferring RFC 7807 validation details, then a message field, then the raw
// body.
func readAPIError(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	fallback := fmt.Sprintf("HTTP %d", resp.StatusCode)

	var problem struct {
		Title   string              `json:"title"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if json.Unmarshal(raw, &problem) == nil {
		for _, messages := range problem.Errors {
			if len(messages) > 0 && strings.TrimSpace(messages[0]) != "" {
				return fallback + ": " + messages[0]
			}
		}
		if strings.TrimSpace(problem.Message) != "" {
			return fallback + ": " + problem.Message
		}
		if strings.TrimSpace(problem.Title) != "" {
			return fallback + ": " + problem.Title
		}
	}
	if trimmed := strings.TrimSpace(string(raw)); trimmed != "" {
		return fallback + ": " + trimmed
	}
	return fallback
}
