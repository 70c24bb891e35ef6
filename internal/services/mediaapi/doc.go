// Package mediaapi is the thin HTTP client for the CMS media endpoints:
// multipart uploads of video and image files plus status lookups for the
// background processing jobs they start.
//
// The client performs no validation, retries, or polling; it maps requests to
// the wire protocol and non-success responses to StatusError values. Policy
// lives in the upload package.
package mediaapi
