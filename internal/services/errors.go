package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks pre-flight failures detected before any network
	// call, such as oversized files or disallowed MIME types.
	ErrValidation = errors.New("validation error")
	// ErrTransport marks a non-success HTTP response from the media API.
	ErrTransport = errors.New("transport error")
	// ErrProcessingFailed marks a server-reported terminal processing failure.
	ErrProcessingFailed = errors.New("processing failed")
	// ErrTimeout marks an elapsed polling deadline with no terminal status.
	// Unlike ErrProcessingFailed, the upload may still complete server-side;
	// callers can re-poll the same upload identifier later.
	ErrTimeout = errors.New("processing timeout")
	// ErrIncompleteCompletion marks a Completed status that is missing
	// required result URLs. This is a server contract violation and is never
	// retried.
	ErrIncompleteCompletion = errors.New("incomplete completion")
	// ErrTransient marks recoverable failures such as a single status fetch
	// failing mid-poll.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRecoverable reports whether the caller may retry the same upload
// identifier later. Only timeouts and transient failures qualify; validation
// errors, transport rejections, explicit processing failures, and contract
// violations are final for the attempt.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransient)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
