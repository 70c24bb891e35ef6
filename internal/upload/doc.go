// Package upload implements the media upload orchestrator: pre-flight
// validation, multipart initiation, the status poll loop that tracks
// server-side background processing, and the completion gate that checks a
// finished job actually carries the URLs downstream entity creation needs.
//
// One parameterized implementation serves every upload context. Contexts
// differ only by profile (size ceiling, MIME allow-list, whether a thumbnail
// URL is required), so reel videos, post videos, and images all flow through
// the same state machine: Pending or Processing until the server reports
// Completed or Failed, with a wall-clock deadline bounding the wait.
//
// A timeout is deliberately distinct from a failure. When the deadline
// elapses the server may still be processing; callers can resume polling the
// same upload identifier later. Single status-fetch errors inside the loop
// are tolerated until the deadline rather than aborting the wait.
//
// The poll loop takes its timing from an injected Clock so tests run on
// virtual time.
package upload
