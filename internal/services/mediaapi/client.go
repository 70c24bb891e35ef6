package mediaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const userAgent = "mediaup/0.1.0"

// Client talks to the CMS media endpoints.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a media API client. The timeout bounds each individual request
// and is independent of any polling deadline the caller maintains.
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

// UploadVideo streams a video file as a multipart request to the upload-video
// endpoint. The multipart writer owns the content-type boundary; callers must
// not set one.
func (c *Client) UploadVideo(ctx context.Context, fileName, contentType string, body io.Reader) (*UploadResponse, error) {
	return c.upload(ctx, "/media/upload-video", fileName, contentType, body)
}

// UploadImage streams an image file to the upload-image endpoint.
func (c *Client) UploadImage(ctx context.Context, fileName, contentType string, body io.Reader) (*UploadResponse, error) {
	return c.upload(ctx, "/media/upload-image", fileName, contentType, body)
}

// UploadStatus fetches the current processing status for an upload.
func (c *Client) UploadStatus(ctx context.Context, uploadID string) (*StatusResponse, error) {
	statusURL := fmt.Sprintf("%s/media/upload-status/%s", c.baseURL, uploadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch upload status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, readStatusError(resp)
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode upload status: %w", err)
	}
	if status.UploadID == "" {
		status.UploadID = uploadID
	}
	return &status, nil
}

func (c *Client) upload(ctx context.Context, path, fileName, contentType string, body io.Reader) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := createFilePart(mw, fileName, contentType)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, readStatusError(resp)
	}

	var uploaded UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.UploadID == "" {
		return nil, fmt.Errorf("upload response missing uploadId")
	}
	return &uploaded, nil
}

func createFilePart(mw *multipart.Writer, fileName, contentType string) (io.Writer, error) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="File"; filename="%s"`, escapeQuotes(fileName)))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return mw.CreatePart(header)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func readStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(raw))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
		message = strings.TrimSpace(payload.Message)
	}
	return &StatusError{Code: resp.StatusCode, Message: message}
}
