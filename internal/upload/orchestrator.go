package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"mediaup/internal/logging"
	"mediaup/internal/services"
	"mediaup/internal/services/mediaapi"
)

const (
	// DefaultDeadline bounds the total wait for background processing.
	DefaultDeadline = 5 * time.Minute
	// DefaultInterval is the pause between status fetches.
	DefaultInterval = 3 * time.Second
)

// API is the subset of the media client the orchestrator needs.
type API interface {
	UploadVideo(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error)
	UploadImage(ctx context.Context, fileName, contentType string, body io.Reader) (*mediaapi.UploadResponse, error)
	UploadStatus(ctx context.Context, uploadID string) (*mediaapi.StatusResponse, error)
}

// Options configures an Orchestrator. Zero values fall back to the system
// clock, a no-op logger, and the default deadline and interval.
type Options struct {
	Clock    Clock
	Logger   *slog.Logger
	Deadline time.Duration
	Interval time.Duration
}

// Orchestrator drives the full upload lifecycle: pre-flight validation,
// multipart initiation, status polling, and the completion gate. A single
// orchestrator serves all profiles and is safe for concurrent use, but each
// upload identifier may only be polled by one goroutine at a time.
type Orchestrator struct {
	api      API
	policies map[Profile]Policy
	clock    Clock
	logger   *slog.Logger
	deadline time.Duration
	interval time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New builds an Orchestrator over the given API client and profile policies.
func New(api API, policies map[Profile]Policy, opts Options) *Orchestrator {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Orchestrator{
		api:      api,
		policies: policies,
		clock:    clock,
		logger:   logging.NewComponentLogger(opts.Logger, "upload"),
		deadline: deadline,
		interval: interval,
		inFlight: make(map[string]struct{}),
	}
}

// Policy returns the policy bound to a profile.
func (o *Orchestrator) Policy(profile Profile) (Policy, bool) {
	policy, ok := o.policies[profile]
	return policy, ok
}

// Initiate validates the request against its profile policy and, when it
// passes, streams the file to the upload endpoint for the profile's media
// kind. Validation failures are detected before any bytes leave the process.
func (o *Orchestrator) Initiate(ctx context.Context, req Request) (*Handle, error) {
	policy, ok := o.policies[req.Profile]
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "upload", "initiate",
			fmt.Sprintf("unknown profile %q", req.Profile), nil)
	}
	if err := req.validate(policy); err != nil {
		return nil, err
	}

	o.logger.Info("initiating upload",
		logging.String(logging.FieldProfile, string(req.Profile)),
		logging.String("file_name", req.FileName),
		logging.Int64("size_bytes", req.Size))

	var resp *mediaapi.UploadResponse
	var err error
	switch policy.Kind {
	case KindImage:
		resp, err = o.api.UploadImage(ctx, req.FileName, req.ContentType, req.Body)
	default:
		resp, err = o.api.UploadVideo(ctx, req.FileName, req.ContentType, req.Body)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "upload", "initiate", "upload rejected", err)
	}

	state, ok := ParseState(resp.Status)
	if !ok {
		state = StatePending
	}
	handle := &Handle{
		UploadID:     resp.UploadID,
		FileName:     resp.FileName,
		SubmittedAt:  resp.UploadedAt,
		InitialState: state,
		Message:      resp.Message,
		StatusHubURL: resp.SignalRHubURL,
	}
	o.logger.Info("upload accepted",
		logging.String(logging.FieldUploadID, handle.UploadID),
		logging.String(logging.FieldState, string(handle.InitialState)))
	return handle, nil
}

// Status fetches a single processing snapshot without entering a poll loop.
func (o *Orchestrator) Status(ctx context.Context, uploadID string) (Status, error) {
	resp, err := o.api.UploadStatus(ctx, uploadID)
	if err != nil {
		return Status{}, services.Wrap(services.ErrTransport, "upload", "status", "status fetch failed", err)
	}
	return statusFromWire(resp), nil
}

// PollOptions tunes a single poll loop. Zero durations fall back to the
// orchestrator defaults; a nil Observer receives no progress events.
type PollOptions struct {
	Deadline time.Duration
	Interval time.Duration
	Observer ProgressObserver
}

// PollUntilTerminal fetches the upload status on a fixed interval until the
// server reports a terminal state or the deadline elapses. Individual fetch
// failures inside the loop are tolerated; only the deadline ends the wait.
//
// On Completed the final snapshot is returned with a nil error after one last
// progress event. On Failed the snapshot carries the failure reason and the
// error matches services.ErrProcessingFailed. On deadline the error matches
// services.ErrTimeout and the same upload identifier may be polled again
// later. Only one loop may run per upload identifier at a time.
func (o *Orchestrator) PollUntilTerminal(ctx context.Context, uploadID string, opts PollOptions) (Status, error) {
	if uploadID == "" {
		return Status{}, services.Wrap(services.ErrValidation, "upload", "poll", "upload id is required", nil)
	}
	if err := o.acquire(uploadID); err != nil {
		return Status{}, err
	}
	defer o.release(uploadID)

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = o.deadline
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = o.interval
	}
	ctx = services.WithUploadID(ctx, uploadID)
	logger := logging.WithContext(ctx, o.logger)
	expiry := o.clock.Now().Add(deadline)

	var last Status
	var haveSnapshot bool
	for {
		resp, err := o.api.UploadStatus(ctx, uploadID)
		switch {
		case err != nil:
			logger.Debug("status fetch failed, continuing until deadline", logging.Error(err))
		default:
			last = statusFromWire(resp)
			haveSnapshot = true
			switch last.State {
			case StateCompleted:
				o.emit(opts.Observer, last)
				logger.Info("processing completed", logging.String(logging.FieldState, string(last.State)))
				return last, nil
			case StateFailed:
				logger.Warn("processing failed",
					logging.String("failure_reason", failureDetail(last)))
				return last, services.Wrap(services.ErrProcessingFailed, "upload", "poll", failureDetail(last), nil)
			default:
				o.emit(opts.Observer, last)
			}
		}

		if err := o.clock.Sleep(ctx, interval); err != nil {
			return last, services.Wrap(services.ErrTransient, "upload", "poll", "wait interrupted", err)
		}
		if !o.clock.Now().Before(expiry) {
			logger.Warn("polling deadline elapsed",
				logging.Duration("deadline", deadline),
				logging.Bool("snapshot_seen", haveSnapshot))
			return last, services.Wrap(services.ErrTimeout, "upload", "poll",
				fmt.Sprintf("no terminal status within %s; upload %s may still complete", deadline, uploadID), nil)
		}
	}
}

// Finalize gates a completed status on the URLs the profile requires. It must
// only be called with a Completed snapshot; a Completed status lacking its
// media URL, or its thumbnail URL where the profile demands one, is a server
// contract violation and yields services.ErrIncompleteCompletion.
func (o *Orchestrator) Finalize(status Status, profile Profile) (*FinalizedMedia, error) {
	policy, ok := o.policies[profile]
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "upload", "finalize",
			fmt.Sprintf("unknown profile %q", profile), nil)
	}
	if status.State != StateCompleted {
		return nil, services.Wrap(services.ErrValidation, "upload", "finalize",
			fmt.Sprintf("upload %s is %s, not Completed", status.UploadID, status.State), nil)
	}
	if status.MediaURL == "" {
		return nil, services.Wrap(services.ErrIncompleteCompletion, "upload", "finalize",
			fmt.Sprintf("upload %s completed without a media URL", status.UploadID), nil)
	}
	if policy.RequiresThumbnail && status.ThumbnailURL == "" {
		return nil, services.Wrap(services.ErrIncompleteCompletion, "upload", "finalize",
			fmt.Sprintf("upload %s completed without the required thumbnail URL", status.UploadID), nil)
	}
	return &FinalizedMedia{
		MediaURL:     status.MediaURL,
		ThumbnailURL: status.ThumbnailURL,
		Duration:     status.Duration,
	}, nil
}

// WaitOptions tunes an end-to-end UploadAndWait call. OnInitiated, when set,
// runs as soon as the server acknowledges the upload so callers can persist
// the upload identifier before the wait begins.
type WaitOptions struct {
	PollOptions
	OnInitiated func(handle *Handle)
}

// UploadAndWait composes Initiate, PollUntilTerminal, and Finalize under one
// deadline that covers the entire operation, initiation included. The handle
// is returned whenever initiation succeeded, even alongside a polling error,
// so recoverable failures keep the upload identifier available for a later
// resume.
func (o *Orchestrator) UploadAndWait(ctx context.Context, req Request, opts WaitOptions) (*FinalizedMedia, *Handle, error) {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = o.deadline
	}
	expiry := o.clock.Now().Add(deadline)

	handle, err := o.Initiate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if opts.OnInitiated != nil {
		opts.OnInitiated(handle)
	}

	remaining := expiry.Sub(o.clock.Now())
	if remaining <= 0 {
		return nil, handle, services.Wrap(services.ErrTimeout, "upload", "wait",
			fmt.Sprintf("deadline spent during initiation of upload %s", handle.UploadID), nil)
	}

	pollOpts := opts.PollOptions
	pollOpts.Deadline = remaining
	status, err := o.PollUntilTerminal(ctx, handle.UploadID, pollOpts)
	if err != nil {
		return nil, handle, err
	}

	media, err := o.Finalize(status, req.Profile)
	if err != nil {
		return nil, handle, err
	}
	return media, handle, nil
}

func (o *Orchestrator) acquire(uploadID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.inFlight[uploadID]; exists {
		return services.Wrap(services.ErrValidation, "upload", "poll",
			fmt.Sprintf("upload %s is already being polled", uploadID), nil)
	}
	o.inFlight[uploadID] = struct{}{}
	return nil
}

func (o *Orchestrator) release(uploadID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, uploadID)
}

func (o *Orchestrator) emit(observer ProgressObserver, status Status) {
	if observer == nil {
		return
	}
	percent := coarsePercent(status.State)
	if status.Percent != nil {
		percent = *status.Percent
	}
	observer.ObserveProgress(ProgressEvent{
		UploadID:     status.UploadID,
		State:        status.State,
		Percent:      percent,
		Message:      status.Message,
		MediaURL:     status.MediaURL,
		ThumbnailURL: status.ThumbnailURL,
	})
}

func failureDetail(status Status) string {
	if status.FailureReason != "" {
		return status.FailureReason
	}
	if status.Message != "" {
		return status.Message
	}
	return "processing failed without a reason"
}
