package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store defines the persistence gateway consumed by the bot's flows.
// Lookups for missing keys return (nil, nil); only connectivity and
// storage failures produce errors.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser inserts the user or refreshes display_name and
	// last_active_at. joined_at and banned are never overwritten.
	UpsertUser(ctx context.Context, user *User) error

	// SetUserBanned sets or clears the banned flag for a user.
	SetUserBanned(ctx context.Context, userID int64, banned bool) error

	// ForEachActiveUser streams every non-banned user to fn, one row at a
	// time. Iteration stops on the first error returned by fn.
	ForEachActiveUser(ctx context.Context, fn func(User) error) error

	// SaveFile inserts a new archived file record.
	SaveFile(ctx context.Context, file *ArchivedFile) error

	// GetFile retrieves an archived file by its reference.
	GetFile(ctx context.Context, fileRef int) (*ArchivedFile, error)

	// IncrementFileAccess bumps the access counter for a file reference.
	IncrementFileAccess(ctx context.Context, fileRef int) error

	// CreateBatch persists a new batch with its ordered file references and
	// returns the generated batch identifier.
	CreateBatch(ctx context.Context, ownerUserID int64, fileRefs []int) (string, error)

	// GetBatch retrieves a batch and its ordered file references.
	GetBatch(ctx context.Context, batchID string) (*Batch, error)

	// IncrementBatchAccess bumps the access counter for a batch.
	IncrementBatchAccess(ctx context.Context, batchID string) error

	// GetUserState retrieves the live conversation state for a user.
	GetUserState(ctx context.Context, userID int64) (*ConversationState, error)

	// SetUserState overwrites the user's conversation state as one atomic
	// write. States are never merged across transitions.
	SetUserState(ctx context.Context, state *ConversationState) error

	// ResetUserState deletes the user's conversation state, if any.
	ResetUserState(ctx context.Context, userID int64) error

	// SaveClone inserts a new clone registration.
	SaveClone(ctx context.Context, clone *CloneRegistration) error

	// DeleteStaleStates removes conversation states idle for longer than
	// olderThan and reports how many were removed.
	DeleteStaleStates(ctx context.Context, olderThan time.Duration) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("cannot upsert user without an id")
	}

	now := time.Now().UTC()
	if user.JoinedAt.IsZero() {
		user.JoinedAt = now
	}
	user.LastActiveAt = now

	query := `
        INSERT INTO users (id, display_name, joined_at, last_active_at, banned)
        VALUES (:id, :display_name, :joined_at, :last_active_at, 0)
        ON CONFLICT (id) DO UPDATE SET
            display_name   = excluded.display_name,
            last_active_at = excluded.last_active_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}
	return nil
}

func (s *sqlxStore) SetUserBanned(ctx context.Context, userID int64, banned bool) error {
	query := `UPDATE users SET banned = ? WHERE id = ?;`
	if _, err := s.db.ExecContext(ctx, query, banned, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error updating banned flag", "user_id", userID, "banned", banned, "error", err)
		return fmt.Errorf("failed to set banned=%t for user %d: %w", banned, userID, err)
	}
	return nil
}

func (s *sqlxStore) ForEachActiveUser(ctx context.Context, fn func(User) error) error {
	query := `
        SELECT id, display_name, joined_at, last_active_at, banned
        FROM users
        WHERE banned = 0
        ORDER BY id;
    `
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying active users", "error", err)
		return fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user User
		if err := rows.StructScan(&user); err != nil {
			return fmt.Errorf("failed to scan user row: %w", err)
		}
		if err := fn(user); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate active users: %w", err)
	}
	return nil
}

func (s *sqlxStore) SaveFile(ctx context.Context, file *ArchivedFile) error {
	if file == nil || file.FileRef == 0 {
		return fmt.Errorf("cannot save file without a file_ref")
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO files (file_ref, archive_message_id, owner_user_id, created_at, access_count)
        VALUES (:file_ref, :archive_message_id, :owner_user_id, :created_at, 0);
    `
	if _, err := s.db.NamedExecContext(ctx, query, file); err != nil {
		s.logger.ErrorContext(ctx, "Error saving archived file", "file_ref", file.FileRef, "error", err)
		return fmt.Errorf("failed to save file %d: %w", file.FileRef, err)
	}
	return nil
}

func (s *sqlxStore) GetFile(ctx context.Context, fileRef int) (*ArchivedFile, error) {
	var file ArchivedFile
	query := `
        SELECT file_ref, archive_message_id, owner_user_id, created_at, access_count
        FROM files
        WHERE file_ref = ?;
    `
	if err := s.db.GetContext(ctx, &file, query, fileRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching archived file", "file_ref", fileRef, "error", err)
		return nil, fmt.Errorf("failed to get file %d: %w", fileRef, err)
	}
	return &file, nil
}

func (s *sqlxStore) IncrementFileAccess(ctx context.Context, fileRef int) error {
	query := `UPDATE files SET access_count = access_count + 1 WHERE file_ref = ?;`
	if _, err := s.db.ExecContext(ctx, query, fileRef); err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing file access count", "file_ref", fileRef, "error", err)
		return fmt.Errorf("failed to increment access count for file %d: %w", fileRef, err)
	}
	return nil
}

func (s *sqlxStore) CreateBatch(ctx context.Context, ownerUserID int64, fileRefs []int) (string, error) {
	batchID := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back batch transaction", "error", rollbackErr)
			}
		}
	}()

	batchQuery := `
        INSERT INTO batches (batch_id, owner_user_id, created_at, access_count)
        VALUES (?, ?, ?, 0);
    `
	if _, err := tx.ExecContext(ctx, batchQuery, batchID, ownerUserID, now); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting batch", "owner_user_id", ownerUserID, "error", err)
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}

	fileQuery := `INSERT INTO batch_files (batch_id, position, file_ref) VALUES (?, ?, ?);`
	for i, ref := range fileRefs {
		if _, err := tx.ExecContext(ctx, fileQuery, batchID, i, ref); err != nil {
			s.logger.ErrorContext(ctx, "Error inserting batch file", "batch_id", batchID, "position", i, "error", err)
			return "", fmt.Errorf("failed to insert batch file at position %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit batch transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Batch created", "batch_id", batchID, "owner_user_id", ownerUserID, "files", len(fileRefs))
	return batchID, nil
}

func (s *sqlxStore) GetBatch(ctx context.Context, batchID string) (*Batch, error) {
	var batch Batch
	query := `
        SELECT batch_id, owner_user_id, created_at, access_count
        FROM batches
        WHERE batch_id = ?;
    `
	if err := s.db.GetContext(ctx, &batch, query, batchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching batch", "batch_id", batchID, "error", err)
		return nil, fmt.Errorf("failed to get batch %s: %w", batchID, err)
	}

	refsQuery := `SELECT file_ref FROM batch_files WHERE batch_id = ? ORDER BY position;`
	if err := s.db.SelectContext(ctx, &batch.FileRefs, refsQuery, batchID); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching batch files", "batch_id", batchID, "error", err)
		return nil, fmt.Errorf("failed to get files for batch %s: %w", batchID, err)
	}
	return &batch, nil
}

func (s *sqlxStore) IncrementBatchAccess(ctx context.Context, batchID string) error {
	query := `UPDATE batches SET access_count = access_count + 1 WHERE batch_id = ?;`
	if _, err := s.db.ExecContext(ctx, query, batchID); err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing batch access count", "batch_id", batchID, "error", err)
		return fmt.Errorf("failed to increment access count for batch %s: %w", batchID, err)
	}
	return nil
}

func (s *sqlxStore) GetUserState(ctx context.Context, userID int64) (*ConversationState, error) {
	var state ConversationState
	query := `
        SELECT user_id, mode, channel_id, start_message_id, updated_at
        FROM conversation_states
        WHERE user_id = ?;
    `
	if err := s.db.GetContext(ctx, &state, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching conversation state", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get state for user %d: %w", userID, err)
	}
	return &state, nil
}

func (s *sqlxStore) SetUserState(ctx context.Context, state *ConversationState) error {
	if state == nil || state.UserID == 0 {
		return fmt.Errorf("cannot set state without a user id")
	}
	state.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO conversation_states (user_id, mode, channel_id, start_message_id, updated_at)
        VALUES (:user_id, :mode, :channel_id, :start_message_id, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            mode             = excluded.mode,
            channel_id       = excluded.channel_id,
            start_message_id = excluded.start_message_id,
            updated_at       = excluded.updated_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, state); err != nil {
		s.logger.ErrorContext(ctx, "Error setting conversation state", "user_id", state.UserID, "mode", state.Mode, "error", err)
		return fmt.Errorf("failed to set state for user %d: %w", state.UserID, err)
	}
	return nil
}

func (s *sqlxStore) ResetUserState(ctx context.Context, userID int64) error {
	query := `DELETE FROM conversation_states WHERE user_id = ?;`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error resetting conversation state", "user_id", userID, "error", err)
		return fmt.Errorf("failed to reset state for user %d: %w", userID, err)
	}
	return nil
}

func (s *sqlxStore) SaveClone(ctx context.Context, clone *CloneRegistration) error {
	if clone == nil || clone.OwnerUserID == 0 {
		return fmt.Errorf("cannot save clone without an owner")
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	if clone.Status == "" {
		clone.Status = CloneStatusPending
	}

	query := `
        INSERT INTO clones (owner_user_id, owner_name, bot_token, bot_username, bot_id, created_at, status)
        VALUES (:owner_user_id, :owner_name, :bot_token, :bot_username, :bot_id, :created_at, :status);
    `
	result, err := s.db.NamedExecContext(ctx, query, clone)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving clone registration", "owner_user_id", clone.OwnerUserID, "error", err)
		return fmt.Errorf("failed to save clone for user %d: %w", clone.OwnerUserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		clone.ID = id
	}
	return nil
}

func (s *sqlxStore) DeleteStaleStates(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	query := `DELETE FROM conversation_states WHERE updated_at < ?;`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting stale conversation states", "error", err)
		return 0, fmt.Errorf("failed to delete stale states: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return deleted, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Error running maintenance statement", "statement", stmt, "error", err)
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}
	return nil
}
