// Package command contains write operations following the CQRS split.
// Each command is a self-contained use case with its own input,
// validation, and result types.
package command

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/logger"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// LogProblemCommand carries the raw input of one "I solved a problem"
// submission. TimeTaken and LookedUp arrive as the free-form strings
// the front end collected; validation normalizes them before any
// mutation happens.
type LogProblemCommand struct {
	// UserID is the identity whose log is appended to.
	UserID practice.UserID

	// ProblemID is the catalog id, string or numeric text.
	ProblemID string

	// TimeTaken is the time in minutes, as entered ("25", "12.5").
	TimeTaken string

	// LookedUp is "yes" or "no" (case-insensitive).
	LookedUp string

	// Date optionally overrides the day bucket (YYYY-MM-DD).
	// Empty means "today" in the reference timezone.
	Date string
}

// parsed holds the normalized command values after validation.
type parsed struct {
	date     string
	minutes  float64
	lookedUp bool
}

// validate normalizes the raw input, rejecting it before mutation.
func (c LogProblemCommand) validate() (parsed, error) {
	var p parsed

	if !c.UserID.IsValid() {
		return p, shared.ErrInvalidUserID
	}
	if strings.TrimSpace(c.ProblemID) == "" {
		return p, shared.WrapError("practice", "Append", shared.ErrInvalidID, "problem id is required", nil)
	}

	minutes, err := strconv.ParseFloat(strings.TrimSpace(c.TimeTaken), 64)
	if err != nil || minutes < 0 {
		return p, shared.ErrInvalidTimeTaken
	}
	p.minutes = minutes

	switch strings.ToLower(strings.TrimSpace(c.LookedUp)) {
	case "yes":
		p.lookedUp = true
	case "no", "":
		p.lookedUp = false
	default:
		return p, shared.WrapError("practice", "Append", shared.ErrInvalidInput,
			`looked-up flag must be "yes" or "no"`, nil)
	}

	p.date = c.Date
	if p.date == "" {
		p.date = timeutil.TodayKey()
	} else if !timeutil.IsValidDayKey(p.date) {
		return p, shared.ErrInvalidDateKey
	}

	return p, nil
}

// LogProblemResult is returned on a successful append.
type LogProblemResult struct {
	Entry   practice.LogEntry
	Date    string
	Problem catalog.Problem
}

// BoardInvalidator drops a cached leaderboard after an append changed
// the day's counts. Optional; a nil invalidator is skipped.
type BoardInvalidator interface {
	Invalidate(ctx context.Context, date string) error
}

// VersionedLogStore is implemented by backends that can detect a
// concurrent writer in another process (the postgres store). When the
// configured store supports it, the append uses compare-and-swap; the
// per-user mutex still serializes writers inside this process.
type VersionedLogStore interface {
	LoadWithVersion(ctx context.Context, userID practice.UserID) (practice.ActivityLog, int64, error)
	CompareAndSwap(ctx context.Context, userID practice.UserID, log practice.ActivityLog, expectedVersion int64) error
}

// casAttempts bounds the reload-and-retry loop on version conflicts.
const casAttempts = 3

// LogProblemHandler owns the append use case, including the
// per-identity critical section: load -> append -> save runs under a
// per-user lock so two concurrent submissions for the same user cannot
// lose each other's entry. Different users' logs are fully independent
// and proceed concurrently.
type LogProblemHandler struct {
	store  practice.LogStore
	lookup catalog.LookupFunc
	board  BoardInvalidator
	log    *logger.Logger

	mu    sync.Mutex
	locks map[practice.UserID]*sync.Mutex
}

// NewLogProblemHandler creates the append handler.
func NewLogProblemHandler(store practice.LogStore, lookup catalog.LookupFunc, board BoardInvalidator, log *logger.Logger) *LogProblemHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LogProblemHandler{
		store:  store,
		lookup: lookup,
		board:  board,
		log:    log,
		locks:  make(map[practice.UserID]*sync.Mutex),
	}
}

// userLock returns the mutex guarding one identity's read-modify-write.
func (h *LogProblemHandler) userLock(id practice.UserID) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[id] = lock
	}
	return lock
}

// Handle executes the append. It either fully succeeds (entry present,
// log persisted) or fully fails with the log unchanged.
func (h *LogProblemHandler) Handle(ctx context.Context, cmd LogProblemCommand) (*LogProblemResult, error) {
	p, err := cmd.validate()
	if err != nil {
		return nil, err
	}

	start := time.Now()

	lock := h.userLock(cmd.UserID)
	lock.Lock()
	defer lock.Unlock()

	var entry practice.LogEntry
	if vs, ok := h.store.(VersionedLogStore); ok {
		entry, err = h.appendVersioned(ctx, vs, cmd, p)
	} else {
		entry, err = h.appendPlain(ctx, cmd, p)
	}
	if err != nil {
		return nil, err
	}

	problem, _ := h.lookup(entry.ProblemID)

	if h.board != nil {
		if err := h.board.Invalidate(ctx, p.date); err != nil {
			// Stale board is tolerable; the entry itself is persisted.
			h.log.Warn("failed to invalidate leaderboard cache",
				logger.DateKey(p.date), logger.Err(err))
		}
	}

	h.log.Info("problem logged",
		logger.UserID(cmd.UserID.String()),
		logger.ProblemID(entry.ProblemID),
		logger.DateKey(p.date),
		logger.Latency(time.Since(start)),
	)

	return &LogProblemResult{Entry: entry, Date: p.date, Problem: problem}, nil
}

// appendPlain is the single-process path: load, append, replace.
func (h *LogProblemHandler) appendPlain(ctx context.Context, cmd LogProblemCommand, p parsed) (practice.LogEntry, error) {
	log, err := h.store.Load(ctx, cmd.UserID)
	if err != nil {
		return practice.LogEntry{}, err
	}

	updated, entry, err := practice.Append(log, p.date, cmd.ProblemID, p.minutes, p.lookedUp, h.lookup)
	if err != nil {
		return practice.LogEntry{}, err
	}

	if err := h.store.Save(ctx, cmd.UserID, updated); err != nil {
		return practice.LogEntry{}, err
	}
	return entry, nil
}

// appendVersioned is the multi-process path: the swap only lands if no
// other process replaced the row since the load. On a conflict the log
// is reloaded and the append re-run, so the duplicate guard sees the
// other writer's entries.
func (h *LogProblemHandler) appendVersioned(ctx context.Context, store VersionedLogStore, cmd LogProblemCommand, p parsed) (practice.LogEntry, error) {
	for attempt := 1; ; attempt++ {
		log, version, err := store.LoadWithVersion(ctx, cmd.UserID)
		if err != nil {
			return practice.LogEntry{}, err
		}

		updated, entry, err := practice.Append(log, p.date, cmd.ProblemID, p.minutes, p.lookedUp, h.lookup)
		if err != nil {
			return practice.LogEntry{}, err
		}

		err = store.CompareAndSwap(ctx, cmd.UserID, updated, version)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, shared.ErrVersionConflict) || attempt >= casAttempts {
			return practice.LogEntry{}, err
		}

		h.log.Warn("concurrent log update, retrying append",
			logger.UserID(cmd.UserID.String()),
			logger.DateKey(p.date),
			logger.Int("attempt", attempt),
		)
	}
}
