package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ErrVersionConflict is returned by CompareAndSwap when another writer
// replaced the log since it was loaded. It aliases the shared sentinel
// so callers above the persistence layer match it with errors.Is
// without importing this package.
var ErrVersionConflict = shared.ErrVersionConflict

// LogStore implements practice.LogStore on a jsonb row per user.
// Row replacement is atomic at the database level, which satisfies the
// crash-safety requirement of Save. For multi-process deployments the
// versioned LoadWithVersion/CompareAndSwap pair provides the
// read-modify-write critical section across processes.
type LogStore struct {
	conn *Connection
}

// NewLogStore creates a LogStore over an established connection.
func NewLogStore(conn *Connection) *LogStore {
	return &LogStore{conn: conn}
}

// Load implements practice.LogStore. A user with no row gets an empty
// log; an unparseable jsonb value is surfaced as storage corruption.
func (s *LogStore) Load(ctx context.Context, userID practice.UserID) (practice.ActivityLog, error) {
	log, _, err := s.LoadWithVersion(ctx, userID)
	return log, err
}

// LoadWithVersion loads the log together with its row version for a
// later CompareAndSwap. A missing row returns version 0.
func (s *LogStore) LoadWithVersion(ctx context.Context, userID practice.UserID) (practice.ActivityLog, int64, error) {
	if !userID.IsValid() {
		return nil, 0, shared.ErrInvalidUserID
	}

	const query = `SELECT log, version FROM practice_logs WHERE user_id = $1`

	var raw []byte
	var version int64
	err := s.conn.pool.QueryRow(ctx, query, userID.String()).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return practice.NewActivityLog(), 0, nil
		}
		return nil, 0, shared.WrapError("storage", "Load", shared.ErrStorageUnavailable, "query activity log", err)
	}

	var log practice.ActivityLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, 0, shared.WrapError("storage", "Load", shared.ErrStorageCorruption,
			fmt.Sprintf("activity log for %s is unparseable", userID), err)
	}
	if log == nil {
		log = practice.NewActivityLog()
	}
	return log, version, nil
}

// Save implements practice.LogStore: last-writer-wins full replacement.
func (s *LogStore) Save(ctx context.Context, userID practice.UserID, log practice.ActivityLog) error {
	if !userID.IsValid() {
		return shared.ErrInvalidUserID
	}

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("postgres: marshal activity log: %w", err)
	}

	const query = `
		INSERT INTO practice_logs (user_id, log, version, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (user_id) DO UPDATE
		SET log = EXCLUDED.log, version = practice_logs.version + 1, updated_at = now()
	`
	if _, err := s.conn.pool.Exec(ctx, query, userID.String(), data); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "upsert activity log", err)
	}
	return nil
}

// CompareAndSwap replaces the log only if the row version still equals
// expectedVersion (0 meaning "no row existed"). Returns
// ErrVersionConflict when a concurrent writer won the race; the caller
// reloads and retries.
func (s *LogStore) CompareAndSwap(ctx context.Context, userID practice.UserID, log practice.ActivityLog, expectedVersion int64) error {
	if !userID.IsValid() {
		return shared.ErrInvalidUserID
	}

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("postgres: marshal activity log: %w", err)
	}

	if expectedVersion == 0 {
		const insert = `
			INSERT INTO practice_logs (user_id, log, version, updated_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (user_id) DO NOTHING
		`
		tag, err := s.conn.pool.Exec(ctx, insert, userID.String(), data)
		if err != nil {
			return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "insert activity log", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	const update = `
		UPDATE practice_logs
		SET log = $2, version = version + 1, updated_at = now()
		WHERE user_id = $1 AND version = $3
	`
	tag, err := s.conn.pool.Exec(ctx, update, userID.String(), data, expectedVersion)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "update activity log", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

// ListIdentities implements practice.LogStore. Order is unspecified.
func (s *LogStore) ListIdentities(ctx context.Context) ([]practice.UserID, error) {
	const query = `SELECT user_id FROM practice_logs`

	rows, err := s.conn.pool.Query(ctx, query)
	if err != nil {
		return nil, shared.WrapError("storage", "ListIdentities", shared.ErrStorageUnavailable, "query identities", err)
	}
	defer rows.Close()

	var ids []practice.UserID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapError("storage", "ListIdentities", shared.ErrStorageUnavailable, "scan identity", err)
		}
		ids = append(ids, practice.UserID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("storage", "ListIdentities", shared.ErrStorageUnavailable, "iterate identities", err)
	}
	return ids, nil
}
