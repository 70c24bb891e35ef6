package upload

import (
	"time"

	"mediaup/internal/services/mediaapi"
)

// State is a server-side processing state. The string values match the wire
// protocol exactly, casing included.
type State string

const (
	StatePending    State = "Pending"
	StateProcessing State = "Processing"
	StateCompleted  State = "Completed"
	StateFailed     State = "Failed"
)

// ParseState converts a wire value into a known State.
func ParseState(value string) (State, bool) {
	switch State(value) {
	case StatePending, StateProcessing, StateCompleted, StateFailed:
		return State(value), true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are expected.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Handle identifies an initiated upload. It is immutable once created; all
// mutable state lives server-side and is fetched by UploadID.
type Handle struct {
	UploadID     string
	FileName     string
	SubmittedAt  time.Time
	InitialState State
	Message      string
	StatusHubURL string
}

// Status is a snapshot of a processing job. Each poll replaces the previous
// snapshot; no history is retained client-side.
type Status struct {
	UploadID      string
	FileName      string
	State         State
	Message       string
	Percent       *int
	MediaURL      string
	ThumbnailURL  string
	Duration      string
	FailureReason string
}

// ProgressEvent is pushed to the observer on every non-terminal poll tick and
// once on terminal success. Percent is the server's figure when supplied and
// a coarse state-derived value otherwise; it is UI feedback, never a
// completion signal.
type ProgressEvent struct {
	UploadID     string
	State        State
	Percent      int
	Message      string
	MediaURL     string
	ThumbnailURL string
}

// ProgressObserver receives progress events for a single upload in strictly
// increasing time order. No event is delivered after the terminal outcome.
type ProgressObserver interface {
	ObserveProgress(event ProgressEvent)
}

// ProgressFunc adapts a plain function to the ProgressObserver interface.
type ProgressFunc func(event ProgressEvent)

func (f ProgressFunc) ObserveProgress(event ProgressEvent) { f(event) }

// FinalizedMedia is the validated URL bundle a completed upload yields, ready
// to embed in a downstream entity-creation request.
type FinalizedMedia struct {
	MediaURL     string
	ThumbnailURL string
	Duration     string
}

func statusFromWire(resp *mediaapi.StatusResponse) Status {
	mediaURL := resp.VideoURL
	if mediaURL == "" {
		mediaURL = resp.URL
	}
	state, ok := ParseState(resp.Status)
	if !ok {
		state = State(resp.Status)
	}
	return Status{
		UploadID:      resp.UploadID,
		FileName:      resp.FileName,
		State:         state,
		Message:       resp.Message,
		Percent:       resp.ProgressPercentage,
		MediaURL:      mediaURL,
		ThumbnailURL:  resp.ThumbnailURL,
		Duration:      resp.Duration,
		FailureReason: resp.FailureReason,
	}
}

// coarsePercent maps a state to the fixed progress figure used when the
// server omits a percentage.
func coarsePercent(state State) int {
	switch state {
	case StateCompleted:
		return 100
	case StateProcessing:
		return 75
	case StatePending:
		return 25
	default:
		return 0
	}
}
