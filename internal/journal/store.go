package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mediaup/internal/config"
	"mediaup/internal/upload"
)

// Store manages attempt persistence backed by SQLite. A file lock next to
// the database keeps the journal single-writer across processes.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS upload_attempts (
    id             TEXT PRIMARY KEY,
    upload_id      TEXT NOT NULL UNIQUE,
    profile        TEXT NOT NULL,
    file_name      TEXT NOT NULL,
    title          TEXT,
    size_bytes     INTEGER NOT NULL DEFAULT 0,
    state          TEXT NOT NULL,
    message        TEXT,
    media_url      TEXT,
    thumbnail_url  TEXT,
    duration       TEXT,
    failure_reason TEXT,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_attempts_state ON upload_attempts(state);
`

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("journal %s is in use by another process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, lock: lock, path: dbPath}, nil
}

// Close closes the database connection and releases the journal lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && dbErr == nil {
			dbErr = unlockErr
		}
	}
	return dbErr
}

// Path returns the location of the journal database file.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a new attempt, assigning its row key and timestamps.
func (s *Store) Record(ctx context.Context, attempt *Attempt) error {
	if attempt == nil {
		return errors.New("attempt is nil")
	}
	if attempt.UploadID == "" {
		return errors.New("attempt upload id is required")
	}
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO upload_attempts (
            id, upload_id, profile, file_name, title, size_bytes, state,
            message, media_url, thumbnail_url, duration, failure_reason,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.UploadID,
		string(attempt.Profile),
		attempt.FileName,
		nullableString(attempt.Title),
		attempt.SizeBytes,
		string(attempt.State),
		nullableString(attempt.Message),
		nullableString(attempt.MediaURL),
		nullableString(attempt.ThumbnailURL),
		nullableString(attempt.Duration),
		nullableString(attempt.FailureReason),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// UpdateFromStatus folds a fresh status snapshot into the attempt row for its
// upload identifier.
func (s *Store) UpdateFromStatus(ctx context.Context, status upload.Status) error {
	if status.UploadID == "" {
		return errors.New("status upload id is required")
	}
	_, err := s.execWithRetry(
		ctx,
		`UPDATE upload_attempts
         SET state = ?, message = ?, media_url = ?, thumbnail_url = ?,
             duration = ?, failure_reason = ?, updated_at = ?
         WHERE upload_id = ?`,
		string(status.State),
		nullableString(status.Message),
		nullableString(status.MediaURL),
		nullableString(status.ThumbnailURL),
		nullableString(status.Duration),
		nullableString(status.FailureReason),
		time.Now().UTC().Format(time.RFC3339Nano),
		status.UploadID,
	)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	return nil
}

// GetByUploadID fetches the attempt for a server-side upload identifier.
// A missing attempt returns nil without error.
func (s *Store) GetByUploadID(ctx context.Context, uploadID string) (*Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM upload_attempts WHERE upload_id = ?`, uploadID)
	attempt, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// List returns attempts filtered by state set, newest first. With no states
// it returns every attempt.
func (s *Store) List(ctx context.Context, states ...upload.State) ([]*Attempt, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + attemptColumns + ` FROM upload_attempts`
	orderClause := ` ORDER BY created_at DESC`

	if len(states) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(states))
		args := make([]any, len(states))
		for i, state := range states {
			args[i] = string(state)
		}
		query := baseQuery + ` WHERE state IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// Unresolved returns attempts that never reached a terminal state, oldest
// first, for resuming after an interrupted wait.
func (s *Store) Unresolved(ctx context.Context) ([]*Attempt, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+attemptColumns+` FROM upload_attempts WHERE state IN (?, ?) ORDER BY created_at`,
		string(upload.StatePending),
		string(upload.StateProcessing),
	)
	if err != nil {
		return nil, fmt.Errorf("list unresolved attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// Remove deletes the attempt for an upload identifier.
func (s *Store) Remove(ctx context.Context, uploadID string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM upload_attempts WHERE upload_id = ?`, uploadID)
	if err != nil {
		return false, fmt.Errorf("delete attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearResolved removes attempts that reached a terminal state.
func (s *Store) ClearResolved(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM upload_attempts WHERE state IN (?, ?)`,
		string(upload.StateCompleted),
		string(upload.StateFailed),
	)
	if err != nil {
		return 0, fmt.Errorf("clear resolved attempts: %w", err)
	}
	return res.RowsAffected()
}

const attemptColumns = "id, upload_id, profile, file_name, title, size_bytes, state, message, media_url, thumbnail_url, duration, failure_reason, created_at, updated_at"

func scanAttempt(scanner interface{ Scan(dest ...any) error }) (*Attempt, error) {
	var (
		id            string
		uploadID      string
		profile       string
		fileName      string
		title         sql.NullString
		sizeBytes     int64
		state         string
		message       sql.NullString
		mediaURL      sql.NullString
		thumbnailURL  sql.NullString
		duration      sql.NullString
		failureReason sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&uploadID,
		&profile,
		&fileName,
		&title,
		&sizeBytes,
		&state,
		&message,
		&mediaURL,
		&thumbnailURL,
		&duration,
		&failureReason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:            id,
		UploadID:      uploadID,
		Profile:       upload.Profile(profile),
		FileName:      fileName,
		Title:         title.String,
		SizeBytes:     sizeBytes,
		State:         upload.State(state),
		Message:       message.String,
		MediaURL:      mediaURL.String,
		ThumbnailURL:  thumbnailURL.String,
		Duration:      duration.String,
		FailureReason: failureReason.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		attempt.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		attempt.UpdatedAt = updated
	}
	return attempt, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
