// Package file implements the activity-log store as one JSON document
// per user on local disk. This mirrors the original deployment layout
// (userData/<id>.json) and needs no external services.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

const fileExt = ".json"

// Store persists one ActivityLog per user under a data directory.
//
// Save is crash-safe via write-temp-then-rename: the new document is
// written to a temporary file in the same directory, fsynced, and
// renamed over the old one. A crash mid-write leaves the previous
// valid document untouched.
type Store struct {
	dir string
}

// NewStore creates a file store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file: data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// path returns the document path for a user, rejecting identities that
// would escape the data directory. Identities are opaque handles, but
// this store maps them to filenames, so path metacharacters are not
// representable here.
func (s *Store) path(userID practice.UserID) (string, error) {
	id := userID.String()
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) || strings.Contains(id, string(os.PathSeparator)) {
		return "", shared.ErrInvalidUserID
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

// Load implements practice.LogStore. Absence is not an error: a user
// with no document gets an empty log.
func (s *Store) Load(ctx context.Context, userID practice.UserID) (practice.ActivityLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return practice.NewActivityLog(), nil
		}
		return nil, shared.WrapError("storage", "Load", shared.ErrStorageUnavailable, "read activity log", err)
	}

	var log practice.ActivityLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorageCorruption,
			fmt.Sprintf("activity log for %s is unparseable", userID), err)
	}
	if log == nil {
		log = practice.NewActivityLog()
	}
	return log, nil
}

// Save implements practice.LogStore.
func (s *Store) Save(ctx context.Context, userID practice.UserID, log practice.ActivityLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(userID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("file: marshal activity log: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+userID.String()+".tmp-*")
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "close temp file", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorageUnavailable, "swap activity log", err)
	}
	return nil
}

// ListIdentities implements practice.LogStore. Order is unspecified.
func (s *Store) ListIdentities(ctx context.Context) ([]practice.UserID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, shared.WrapError("storage", "ListIdentities", shared.ErrStorageUnavailable, "read data dir", err)
	}

	ids := make([]practice.UserID, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, practice.UserID(strings.TrimSuffix(name, fileExt)))
	}
	return ids, nil
}
