package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediaup/internal/services"
	"mediaup/internal/services/cms"
)

func validVideoPost() cms.VideoPostRequest {
	return cms.VideoPostRequest{
		Title:             "Summer Trip",
		Content:           "Highlights from the trip.",
		VideoThumbnailURL: "https://cdn.example.com/t/trip.jpg",
		VideoFileURLs:     []string{"https://cdn.example.com/v/trip.mp4"},
		Duration:          "00:01:30",
		Language:          cms.LanguageEnglish,
		Status:            cms.PostStatusDraft,
		TagIDs:            []string{},
	}
}

func TestCreateVideoPost(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody cms.VideoPostRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "post-1", "title": "Summer Trip", "status": "Draft", "categoryId": "cat-1"}`))
	}))
	defer server.Close()

	client := cms.New(server.URL, "secret", 5*time.Second)
	post, err := client.CreateVideoPost(context.Background(), "cat-1", validVideoPost())
	if err != nil {
		t.Fatalf("CreateVideoPost: %v", err)
	}
	if gotPath != "/posts/categories/cat-1/videos" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.CategoryID != "cat-1" {
		t.Fatalf("category id should be set from the path argument, got %q", gotBody.CategoryID)
	}
	if post.ID != "post-1" {
		t.Fatalf("unexpected post id %q", post.ID)
	}
}

func TestVideoPostValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*cms.VideoPostRequest)
	}{
		{"missing title", func(r *cms.VideoPostRequest) { r.Title = "" }},
		{"missing content", func(r *cms.VideoPostRequest) { r.Content = "" }},
		{"missing thumbnail", func(r *cms.VideoPostRequest) { r.VideoThumbnailURL = "" }},
		{"external url without embed code", func(r *cms.VideoPostRequest) {
			r.VideoURL = "https://youtu.be/abc123"
			r.VideoEmbedCode = ""
		}},
		{"no video source", func(r *cms.VideoPostRequest) {
			r.VideoURL = ""
			r.VideoFileURLs = nil
		}},
		{"bad duration", func(r *cms.VideoPostRequest) { r.Duration = "90 seconds" }},
		{"bad language", func(r *cms.VideoPostRequest) { r.Language = "French" }},
		{"bad status", func(r *cms.VideoPostRequest) { r.Status = "Live" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("validation failures must not reach the server")
			}))
			defer server.Close()

			req := validVideoPost()
			tc.mutate(&req)
			client := cms.New(server.URL, "", time.Second)
			_, err := client.CreateVideoPost(context.Background(), "cat-1", req)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestDurationFormats(t *testing.T) {
	t.Parallel()

	valid := []string{"00:01:30", "12:00:00", "1.02:03:04", "-00:00:01", "00:00:01.1234567"}
	invalid := []string{"1:30", "00:01", "00:01:30.12345678", "an hour"}

	for _, duration := range valid {
		req := validVideoPost()
		req.Duration = duration
		if err := req.Validate(); err != nil {
			t.Errorf("duration %q should be valid: %v", duration, err)
		}
	}
	for _, duration := range invalid {
		req := validVideoPost()
		req.Duration = duration
		if err := req.Validate(); err == nil {
			t.Errorf("duration %q should be rejected", duration)
		}
	}
}

func TestCreateVideoPostSurfacesValidationProblem(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"title": "Validation failed", "errors": {"slug": ["Slug is already taken"]}}`))
	}))
	defer server.Close()

	client := cms.New(server.URL, "", time.Second)
	_, err := client.CreateVideoPost(context.Background(), "cat-1", validVideoPost())
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "Slug is already taken") {
		t.Fatalf("server detail should survive, got %v", err)
	}
}

func TestReelLifecycle(t *testing.T) {
	t.Parallel()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		published := strings.HasSuffix(r.URL.Path, "/publish")
		_, _ = w.Write([]byte(`{
			"id": "reel-1",
			"videoUrl": "https://cdn.example.com/v/reel.mp4",
			"caption": "Trip",
			"isPublished": ` + strings.ToLower(map[bool]string{true: "true", false: "false"}[published]) + `
		}`))
	}))
	defer server.Close()

	client := cms.New(server.URL, "", time.Second)
	ctx := context.Background()

	reel, err := client.CreateReel(ctx, cms.ReelRequest{
		VideoURL: "https://cdn.example.com/v/reel.mp4",
		Caption:  "Trip",
	})
	if err != nil {
		t.Fatalf("CreateReel: %v", err)
	}
	if reel.ID != "reel-1" {
		t.Fatalf("unexpected reel id %q", reel.ID)
	}

	published, err := client.PublishReel(ctx, reel.ID)
	if err != nil {
		t.Fatalf("PublishReel: %v", err)
	}
	if !published.IsPublished {
		t.Fatal("expected a published reel")
	}

	unpublished, err := client.UnpublishReel(ctx, reel.ID)
	if err != nil {
		t.Fatalf("UnpublishReel: %v", err)
	}
	if unpublished.IsPublished {
		t.Fatal("expected an unpublished reel")
	}

	want := []string{
		"POST /reels",
		"POST /reels/reel-1/publish",
		"POST /reels/reel-1/unpublish",
	}
	if len(paths) != len(want) {
		t.Fatalf("unexpected request trail %v", paths)
	}
	for i, path := range want {
		if paths[i] != path {
			t.Fatalf("request %d = %q, want %q", i, paths[i], path)
		}
	}
}

func TestCreateReelRequiresVideoURL(t *testing.T) {
	t.Parallel()

	client := cms.New("http://127.0.0.1:0", "", time.Second)
	_, err := client.CreateReel(context.Background(), cms.ReelRequest{Caption: "no video"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListReelsEncodesParams(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pageSize": 10, "pageNumber": 2, "totalCount": 0, "items": []}`))
	}))
	defer server.Close()

	published := true
	client := cms.New(server.URL, "", time.Second)
	page, err := client.ListReels(context.Background(), cms.ReelListParams{
		PageNumber:  2,
		PageSize:    10,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("ListReels: %v", err)
	}
	if page.PageNumber != 2 {
		t.Fatalf("unexpected page number %d", page.PageNumber)
	}
	for _, fragment := range []string{"PageNumber=2", "PageSize=10", "IsPublished=true"} {
		if !strings.Contains(gotQuery, fragment) {
			t.Fatalf("query %q missing %q", gotQuery, fragment)
		}
	}
}

func TestEmbedCode(t *testing.T) {
	t.Parallel()

	code, ok := cms.EmbedCode("https://www.youtube.com/watch?v=abc123", 0, 0)
	if !ok {
		t.Fatal("expected a youtube embed")
	}
	if !strings.Contains(code, "https://www.youtube.com/embed/abc123") {
		t.Fatalf("unexpected embed %q", code)
	}

	code, ok = cms.EmbedCode("https://youtu.be/xyz789", 640, 360)
	if !ok || !strings.Contains(code, "embed/xyz789") || !strings.Contains(code, `width="640"`) {
		t.Fatalf("unexpected short-link embed %q (ok=%v)", code, ok)
	}

	code, ok = cms.EmbedCode("https://vimeo.com/123456", 0, 0)
	if !ok || !strings.Contains(code, "https://player.vimeo.com/video/123456") {
		t.Fatalf("unexpected vimeo embed %q (ok=%v)", code, ok)
	}

	if _, ok := cms.EmbedCode("https://example.com/watch/1", 0, 0); ok {
		t.Fatal("unknown hosts must not produce an embed")
	}
	if _, ok := cms.EmbedCode("not a url", 0, 0); ok {
		t.Fatal("unparseable input must not produce an embed")
	}
}
