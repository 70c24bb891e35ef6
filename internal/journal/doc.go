// Package journal persists upload attempts in SQLite so interrupted waits
// can be resumed. Every initiated upload is recorded with its server-side
// identifier; later status fetches update the row in place, leaving a local
// history of what was uploaded, when, and how it ended.
package journal
