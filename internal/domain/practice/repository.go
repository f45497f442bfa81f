package practice

import "context"

// LogStore defines the interface for activity-log persistence.
// This interface is implemented by the infrastructure layer; the
// domain layer has no knowledge of the actual storage mechanism.
//
// A user's log is the unit of persistence: it is read wholesale and
// rewritten wholesale. There is no partial-update protocol.
type LogStore interface {
	// Load returns the activity log for the given user. A user with no
	// persisted record gets an empty log, not an error. A record that
	// exists but cannot be parsed is surfaced as a storage-corruption
	// error (shared.IsStorageCorruption), never as empty data.
	Load(ctx context.Context, userID UserID) (ActivityLog, error)

	// Save persists the full log, replacing any prior content. The
	// replacement is atomic with respect to a crash mid-write: a
	// partial write must not corrupt the previous valid state.
	Save(ctx context.Context, userID UserID, log ActivityLog) error

	// ListIdentities enumerates all users with a persisted record, for
	// leaderboard scanning. Order is unspecified.
	ListIdentities(ctx context.Context) ([]UserID, error)
}
