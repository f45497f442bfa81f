package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// memStore is an in-memory LogStore safe for concurrent use.
type memStore struct {
	mu   sync.Mutex
	logs map[practice.UserID]practice.ActivityLog
}

func newMemStore() *memStore {
	return &memStore{logs: make(map[practice.UserID]practice.ActivityLog)}
}

func (s *memStore) Load(ctx context.Context, id practice.UserID) (practice.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := s.logs[id]; ok {
		return log.Clone(), nil
	}
	return practice.NewActivityLog(), nil
}

func (s *memStore) Save(ctx context.Context, id practice.UserID, log practice.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[id] = log.Clone()
	return nil
}

func (s *memStore) ListIdentities(ctx context.Context) ([]practice.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]practice.UserID, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	return ids, nil
}

// versionedMemStore adds LoadWithVersion/CompareAndSwap on top of
// memStore. Setting conflicts makes the next N swaps fail as if
// another process replaced the row in between.
type versionedMemStore struct {
	memStore
	version   int64
	conflicts int
	casCalls  int
}

func (s *versionedMemStore) LoadWithVersion(ctx context.Context, id practice.UserID) (practice.ActivityLog, int64, error) {
	log, err := s.Load(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return log, s.version, nil
}

func (s *versionedMemStore) CompareAndSwap(ctx context.Context, id practice.UserID, log practice.ActivityLog, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.casCalls++
	if s.conflicts > 0 {
		s.conflicts--
		s.version++
		return shared.ErrVersionConflict
	}
	if expectedVersion != s.version {
		return shared.ErrVersionConflict
	}
	s.logs[id] = log.Clone()
	s.version++
	return nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return nil
}

func testLookup() catalog.LookupFunc {
	problems := map[string]catalog.Problem{
		"1": {ID: "1", Title: "Two Sum", Slug: "two-sum", Difficulty: catalog.DifficultyEasy},
		"2": {ID: "2", Title: "Add Two Numbers", Slug: "add-two-numbers", Difficulty: catalog.DifficultyMedium},
	}
	return func(id string) (catalog.Problem, bool) {
		p, ok := problems[id]
		return p, ok
	}
}

func TestLogProblem_Success(t *testing.T) {
	store := newMemStore()
	board := &recordingInvalidator{}
	handler := NewLogProblemHandler(store, testLookup(), board, nil)

	result, err := handler.Handle(context.Background(), LogProblemCommand{
		UserID:    "alice",
		ProblemID: "1",
		TimeTaken: "25",
		LookedUp:  "no",
		Date:      "2026-03-15",
	})
	assert.NoError(t, err)
	assert.Equal(t, "1", result.Entry.ProblemID)
	assert.Equal(t, "Two Sum", result.Entry.Title)
	assert.Equal(t, 25.0, result.Entry.TimeTakenMinutes)
	assert.Equal(t, "2026-03-15", result.Date)
	assert.Equal(t, "Two Sum", result.Problem.Title)

	// The entry is persisted, not just returned.
	persisted, err := store.Load(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Len(t, persisted["2026-03-15"], 1)

	// The day's cached board was invalidated.
	assert.Equal(t, []string{"2026-03-15"}, board.dates)
}

func TestLogProblem_DuplicateLeavesLogUnchanged(t *testing.T) {
	store := newMemStore()
	handler := NewLogProblemHandler(store, testLookup(), nil, nil)
	ctx := context.Background()

	cmd := LogProblemCommand{UserID: "alice", ProblemID: "1", TimeTaken: "25", Date: "2026-03-15"}
	_, err := handler.Handle(ctx, cmd)
	assert.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrDuplicateEntry)

	persisted, err := store.Load(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, persisted["2026-03-15"], 1)
}

func TestLogProblem_UnknownProblem(t *testing.T) {
	handler := NewLogProblemHandler(newMemStore(), testLookup(), nil, nil)

	_, err := handler.Handle(context.Background(), LogProblemCommand{
		UserID: "alice", ProblemID: "999", TimeTaken: "10", Date: "2026-03-15",
	})
	assert.ErrorIs(t, err, shared.ErrProblemNotFound)
}

func TestLogProblem_Validation(t *testing.T) {
	handler := NewLogProblemHandler(newMemStore(), testLookup(), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  LogProblemCommand
		want error
	}{
		{"missing user", LogProblemCommand{ProblemID: "1", TimeTaken: "10"}, shared.ErrInvalidUserID},
		{"missing problem id", LogProblemCommand{UserID: "a", TimeTaken: "10"}, shared.ErrInvalidID},
		{"non-numeric time", LogProblemCommand{UserID: "a", ProblemID: "1", TimeTaken: "soon"}, shared.ErrInvalidTimeTaken},
		{"negative time", LogProblemCommand{UserID: "a", ProblemID: "1", TimeTaken: "-5"}, shared.ErrInvalidTimeTaken},
		{"bad looked-up flag", LogProblemCommand{UserID: "a", ProblemID: "1", TimeTaken: "10", LookedUp: "maybe"}, shared.ErrInvalidInput},
		{"bad date", LogProblemCommand{UserID: "a", ProblemID: "1", TimeTaken: "10", Date: "03/15/2026"}, shared.ErrInvalidDateKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tc.cmd)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogProblem_DefaultsToToday(t *testing.T) {
	store := newMemStore()
	handler := NewLogProblemHandler(store, testLookup(), nil, nil)

	result, err := handler.Handle(context.Background(), LogProblemCommand{
		UserID: "alice", ProblemID: "1", TimeTaken: "10",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Date)

	persisted, err := store.Load(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Len(t, persisted[result.Date], 1)
}

func TestLogProblem_VersionConflictRetries(t *testing.T) {
	store := &versionedMemStore{
		memStore:  memStore{logs: make(map[practice.UserID]practice.ActivityLog)},
		conflicts: 1,
	}
	handler := NewLogProblemHandler(store, testLookup(), nil, nil)

	result, err := handler.Handle(context.Background(), LogProblemCommand{
		UserID: "alice", ProblemID: "1", TimeTaken: "25", Date: "2026-03-15",
	})
	assert.NoError(t, err)
	assert.Equal(t, "1", result.Entry.ProblemID)
	assert.Equal(t, 2, store.casCalls, "first swap loses the race, the reload wins")

	persisted, err := store.Load(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Len(t, persisted["2026-03-15"], 1)
}

func TestLogProblem_VersionConflictGivesUp(t *testing.T) {
	store := &versionedMemStore{
		memStore:  memStore{logs: make(map[practice.UserID]practice.ActivityLog)},
		conflicts: 10,
	}
	handler := NewLogProblemHandler(store, testLookup(), nil, nil)

	_, err := handler.Handle(context.Background(), LogProblemCommand{
		UserID: "alice", ProblemID: "1", TimeTaken: "25", Date: "2026-03-15",
	})
	assert.ErrorIs(t, err, shared.ErrVersionConflict)
	assert.Equal(t, casAttempts, store.casCalls)
	assert.Empty(t, store.logs["alice"])
}

func TestLogProblem_ConcurrentSameUserLosesNothing(t *testing.T) {
	store := newMemStore()
	handler := NewLogProblemHandler(store, multiLookup(20), nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := handler.Handle(ctx, LogProblemCommand{
				UserID:    "alice",
				ProblemID: fmt.Sprintf("%d", n),
				TimeTaken: "5",
				Date:      "2026-03-15",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	persisted, err := store.Load(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, persisted["2026-03-15"], 20, "concurrent appends for one user must not lose entries")
}

// multiLookup resolves ids "1".."n".
func multiLookup(n int) catalog.LookupFunc {
	return func(id string) (catalog.Problem, bool) {
		for i := 1; i <= n; i++ {
			if id == fmt.Sprintf("%d", i) {
				return catalog.Problem{ID: id, Title: "Problem " + id, Slug: "problem-" + id, Difficulty: catalog.DifficultyEasy}, true
			}
		}
		return catalog.Problem{}, false
	}
}
