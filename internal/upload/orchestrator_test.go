package upload_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"mediaup/internal/config"
	"mediaup/internal/services"
	"mediaup/internal/services/mediaapi"
	"mediaup/internal/upload"
)

// fakeClock advances virtual time on every Sleep so poll loops run without
// real delays.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

type statusStep struct {
	resp *mediaapi.StatusResponse
	err  error
}

// scriptedAPI replays a fixed sequence of status responses, repeating the
// final step once the script is exhausted.
type scriptedAPI struct {
	mu          sync.Mutex
	steps       []statusStep
	next        int
	uploadCalls int
	statusCalls int
	uploadResp  *mediaapi.UploadResponse
	uploadErr   error
}

func (s *scriptedAPI) UploadVideo(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error) {
	return s.upload(fileName)
}

func (s *scriptedAPI) UploadImage(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error) {
	return s.upload(fileName)
}

func (s *scriptedAPI) upload(fileName string) (*mediaapi.UploadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if s.uploadResp != nil {
		return s.uploadResp, nil
	}
	return &mediaapi.UploadResponse{UploadID: "u-1", FileName: fileName, Status: "Pending"}, nil
}

func (s *scriptedAPI) UploadStatus(ctx context.Context, uploadID string) (*mediaapi.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls++
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("no scripted status for %s", uploadID)
	}
	step := s.steps[s.next]
	if s.next < len(s.steps)-1 {
		s.next++
	}
	if step.err != nil {
		return nil, step.err
	}
	resp := *step.resp
	if resp.UploadID == "" {
		resp.UploadID = uploadID
	}
	return &resp, nil
}

func (s *scriptedAPI) appendSteps(steps ...statusStep) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, steps...)
}

func newOrchestrator(t *testing.T, api upload.API, clock upload.Clock) *upload.Orchestrator {
	t.Helper()
	cfg := config.Default()
	return upload.New(api, upload.Policies(&cfg), upload.Options{Clock: clock})
}

func videoRequest(profile upload.Profile) upload.Request {
	return upload.Request{
		Profile:     profile,
		FileName:    "demo.mp4",
		ContentType: "video/mp4",
		Size:        1 << 20,
		Body:        strings.NewReader("payload"),
	}
}

func TestUploadAndWaitHappyPath(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{Status: "Pending"}},
		{resp: &mediaapi.StatusResponse{Status: "Processing"}},
		{resp: &mediaapi.StatusResponse{
			Status:       "Completed",
			VideoURL:     "https://cdn.example.com/v/demo.mp4",
			ThumbnailURL: "https://cdn.example.com/t/demo.jpg",
			Duration:     "00:01:30",
		}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	var percents []int
	var initiatedID string
	media, handle, err := orch.UploadAndWait(context.Background(), videoRequest(upload.ProfilePostVideo), upload.WaitOptions{
		PollOptions: upload.PollOptions{
			Observer: upload.ProgressFunc(func(event upload.ProgressEvent) {
				percents = append(percents, event.Percent)
			}),
		},
		OnInitiated: func(h *upload.Handle) { initiatedID = h.UploadID },
	})
	if err != nil {
		t.Fatalf("UploadAndWait: %v", err)
	}
	if handle == nil || handle.UploadID != "u-1" {
		t.Fatalf("unexpected handle %+v", handle)
	}
	if initiatedID != "u-1" {
		t.Fatalf("OnInitiated saw %q, want u-1", initiatedID)
	}
	if media.MediaURL != "https://cdn.example.com/v/demo.mp4" {
		t.Fatalf("unexpected media url %q", media.MediaURL)
	}
	if media.ThumbnailURL != "https://cdn.example.com/t/demo.jpg" {
		t.Fatalf("unexpected thumbnail url %q", media.ThumbnailURL)
	}
	if media.Duration != "00:01:30" {
		t.Fatalf("unexpected duration %q", media.Duration)
	}

	want := []int{25, 75, 100}
	if len(percents) != len(want) {
		t.Fatalf("got %d progress events %v, want %v", len(percents), percents, want)
	}
	for i, percent := range want {
		if percents[i] != percent {
			t.Fatalf("event %d percent = %d, want %d", i, percents[i], percent)
		}
	}
}

func TestPollPrefersServerPercentage(t *testing.T) {
	t.Parallel()

	forty := 40
	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{Status: "Processing", ProgressPercentage: &forty}},
		{resp: &mediaapi.StatusResponse{Status: "Completed", URL: "https://cdn.example.com/i/a.png"}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	var percents []int
	_, err := orch.PollUntilTerminal(context.Background(), "u-2", upload.PollOptions{
		Observer: upload.ProgressFunc(func(event upload.ProgressEvent) {
			percents = append(percents, event.Percent)
		}),
	})
	if err != nil {
		t.Fatalf("PollUntilTerminal: %v", err)
	}
	if len(percents) != 2 || percents[0] != 40 || percents[1] != 100 {
		t.Fatalf("unexpected percents %v", percents)
	}
}

func TestStatusFetchIsReadOnly(t *testing.T) {
	t.Parallel()

	forty := 40
	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{
			Status:             "Processing",
			FileName:           "demo.mp4",
			ProgressPercentage: &forty,
		}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	first, err := orch.Status(context.Background(), "u-11")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := orch.Status(context.Background(), "u-11")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("unchanged server status should yield equal snapshots: %+v vs %+v", first, second)
	}
	if api.statusCalls != 2 {
		t.Fatalf("expected 2 fetches, got %d", api.statusCalls)
	}
}

func TestPollReportsProcessingFailure(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{Status: "Processing"}},
		{resp: &mediaapi.StatusResponse{Status: "Failed", FailureReason: "codec error"}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	var events int
	status, err := orch.PollUntilTerminal(context.Background(), "u-3", upload.PollOptions{
		Observer: upload.ProgressFunc(func(upload.ProgressEvent) { events++ }),
	})
	if !errors.Is(err, services.ErrProcessingFailed) {
		t.Fatalf("expected ErrProcessingFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "codec error") {
		t.Fatalf("error should carry the failure reason, got %v", err)
	}
	if status.State != upload.StateFailed {
		t.Fatalf("unexpected state %q", status.State)
	}
	if events != 1 {
		t.Fatalf("expected one progress event before failure, got %d", events)
	}
	if services.IsRecoverable(err) {
		t.Fatal("a server-reported failure must not be recoverable")
	}
}

func TestPollTimesOutAndRemainsResumable(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{Status: "Processing"}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	status, err := orch.PollUntilTerminal(context.Background(), "u-4", upload.PollOptions{
		Deadline: 1000 * time.Millisecond,
		Interval: 300 * time.Millisecond,
	})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !services.IsRecoverable(err) {
		t.Fatal("timeouts must be recoverable")
	}
	if status.State != upload.StateProcessing {
		t.Fatalf("last snapshot should survive the timeout, got %q", status.State)
	}
	if api.statusCalls != 4 {
		t.Fatalf("expected 4 status fetches before the deadline, got %d", api.statusCalls)
	}

	// Same identifier, fresh loop: the server finished in the meantime.
	api.appendSteps(statusStep{resp: &mediaapi.StatusResponse{
		Status: "Completed",
		URL:    "https://cdn.example.com/v/demo.mp4",
	}})
	resumed, err := orch.PollUntilTerminal(context.Background(), "u-4", upload.PollOptions{
		Deadline: 1000 * time.Millisecond,
		Interval: 300 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("resumed poll: %v", err)
	}
	if resumed.State != upload.StateCompleted {
		t.Fatalf("unexpected resumed state %q", resumed.State)
	}
}

func TestPollToleratesFetchErrors(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{steps: []statusStep{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{resp: &mediaapi.StatusResponse{Status: "Completed", URL: "https://cdn.example.com/i/a.png"}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	status, err := orch.PollUntilTerminal(context.Background(), "u-5", upload.PollOptions{})
	if err != nil {
		t.Fatalf("PollUntilTerminal: %v", err)
	}
	if status.State != upload.StateCompleted {
		t.Fatalf("unexpected state %q", status.State)
	}
	if api.statusCalls != 3 {
		t.Fatalf("expected 3 fetches, got %d", api.statusCalls)
	}
}

func TestInitiateRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  upload.Request
	}{
		{
			name: "oversized file",
			req: upload.Request{
				Profile:     upload.ProfileImage,
				FileName:    "huge.png",
				ContentType: "image/png",
				Size:        11 << 20,
				Body:        strings.NewReader("x"),
			},
		},
		{
			name: "disallowed content type",
			req: upload.Request{
				Profile:     upload.ProfilePostVideo,
				FileName:    "demo.avi",
				ContentType: "application/octet-stream",
				Size:        1 << 20,
				Body:        strings.NewReader("x"),
			},
		},
		{
			name: "empty file",
			req: upload.Request{
				Profile:     upload.ProfileImage,
				FileName:    "empty.png",
				ContentType: "image/png",
				Size:        0,
				Body:        strings.NewReader(""),
			},
		},
		{
			name: "unknown profile",
			req: upload.Request{
				Profile:     upload.Profile("banner"),
				FileName:    "demo.png",
				ContentType: "image/png",
				Size:        1 << 10,
				Body:        strings.NewReader("x"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &scriptedAPI{}
			orch := newOrchestrator(t, api, newFakeClock())
			_, err := orch.Initiate(context.Background(), tc.req)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if api.uploadCalls != 0 {
				t.Fatalf("validation must run before any upload call, got %d calls", api.uploadCalls)
			}
		})
	}
}

func TestInitiateAcceptsJpgAlias(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{}
	orch := newOrchestrator(t, api, newFakeClock())
	handle, err := orch.Initiate(context.Background(), upload.Request{
		Profile:     upload.ProfileImage,
		FileName:    "photo.jpg",
		ContentType: "image/jpg",
		Size:        1 << 10,
		Body:        strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if handle.UploadID == "" {
		t.Fatal("expected an upload id")
	}
	if api.uploadCalls != 1 {
		t.Fatalf("expected one upload call, got %d", api.uploadCalls)
	}
}

func TestInitiateWrapsServerRejection(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{uploadErr: &mediaapi.StatusError{Code: 429, Message: "rate limit exceeded"}}
	orch := newOrchestrator(t, api, newFakeClock())
	_, err := orch.Initiate(context.Background(), videoRequest(upload.ProfileReelVideo))
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var statusErr *mediaapi.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 429 {
		t.Fatalf("server status should survive wrapping, got %v", err)
	}
}

func TestFinalizeGatesRequiredURLs(t *testing.T) {
	t.Parallel()

	orch := newOrchestrator(t, &scriptedAPI{}, newFakeClock())

	completed := upload.Status{
		UploadID: "u-6",
		State:    upload.StateCompleted,
		MediaURL: "https://cdn.example.com/v/demo.mp4",
	}

	// Post videos need a thumbnail; reels complete on the media URL alone.
	if _, err := orch.Finalize(completed, upload.ProfilePostVideo); !errors.Is(err, services.ErrIncompleteCompletion) {
		t.Fatalf("expected ErrIncompleteCompletion, got %v", err)
	}
	if _, err := orch.Finalize(completed, upload.ProfileReelVideo); err != nil {
		t.Fatalf("reel finalize: %v", err)
	}

	missingURL := upload.Status{UploadID: "u-7", State: upload.StateCompleted}
	if _, err := orch.Finalize(missingURL, upload.ProfileImage); !errors.Is(err, services.ErrIncompleteCompletion) {
		t.Fatalf("expected ErrIncompleteCompletion for missing media url, got %v", err)
	}

	processing := upload.Status{UploadID: "u-8", State: upload.StateProcessing}
	if _, err := orch.Finalize(processing, upload.ProfileImage); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("finalizing a non-terminal status must be a caller error, got %v", err)
	}
}

// gateAPI blocks status fetches until released so a poll loop can be held
// in flight.
type gateAPI struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateAPI) UploadVideo(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error) {
	return &mediaapi.UploadResponse{UploadID: "u-9", FileName: fileName, Status: "Pending"}, nil
}

func (g *gateAPI) UploadImage(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error) {
	return g.UploadVideo(ctx, fileName, contentType, body)
}

func (g *gateAPI) UploadStatus(ctx context.Context, uploadID string) (*mediaapi.StatusResponse, error) {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
	return &mediaapi.StatusResponse{
		UploadID: uploadID,
		Status:   "Completed",
		URL:      "https://cdn.example.com/v/demo.mp4",
	}, nil
}

func TestPollRefusesConcurrentLoopsPerUpload(t *testing.T) {
	t.Parallel()

	api := &gateAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	orch := newOrchestrator(t, api, newFakeClock())

	done := make(chan error, 1)
	go func() {
		_, err := orch.PollUntilTerminal(context.Background(), "u-9", upload.PollOptions{})
		done <- err
	}()

	select {
	case <-api.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first poll never reached the status endpoint")
	}

	if _, err := orch.PollUntilTerminal(context.Background(), "u-9", upload.PollOptions{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for a concurrent poll, got %v", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first poll: %v", err)
	}

	// The identifier is free again once the first loop returns.
	if _, err := orch.PollUntilTerminal(context.Background(), "u-9", upload.PollOptions{}); err != nil {
		t.Fatalf("poll after release: %v", err)
	}
}

func TestPollStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	api := &scriptedAPI{steps: []statusStep{
		{resp: &mediaapi.StatusResponse{Status: "Processing"}},
	}}
	orch := newOrchestrator(t, api, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orch.PollUntilTerminal(ctx, "u-10", upload.PollOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !services.IsRecoverable(err) {
		t.Fatal("a cancelled wait must stay recoverable")
	}
}
