// Package services defines shared utilities consumed by the upload
// orchestrator and the HTTP API clients.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into the upload error taxonomy (validation, transport, processing
//     failure, timeout, incomplete completion, transient).
//   - Context helpers that stamp upload identifiers and correlation IDs for
//     logging.
//
// Use these helpers when wiring new client logic so operational behaviour
// (error handling, observability) stays uniform across the module.
package services
