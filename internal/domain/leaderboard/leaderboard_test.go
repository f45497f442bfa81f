package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// fakeStore serves canned logs and lets single identities fail.
type fakeStore struct {
	logs   map[practice.UserID]practice.ActivityLog
	broken map[practice.UserID]error
}

func (s *fakeStore) Load(ctx context.Context, id practice.UserID) (practice.ActivityLog, error) {
	if err, ok := s.broken[id]; ok {
		return nil, err
	}
	if log, ok := s.logs[id]; ok {
		return log, nil
	}
	return practice.NewActivityLog(), nil
}

func (s *fakeStore) Save(ctx context.Context, id practice.UserID, log practice.ActivityLog) error {
	if s.logs == nil {
		s.logs = make(map[practice.UserID]practice.ActivityLog)
	}
	s.logs[id] = log
	return nil
}

func (s *fakeStore) ListIdentities(ctx context.Context) ([]practice.UserID, error) {
	ids := make([]practice.UserID, 0, len(s.logs)+len(s.broken))
	for id := range s.logs {
		ids = append(ids, id)
	}
	for id := range s.broken {
		ids = append(ids, id)
	}
	return ids, nil
}

func entriesOn(date string, n int) practice.ActivityLog {
	log := practice.NewActivityLog()
	for i := 0; i < n; i++ {
		log[date] = append(log[date], practice.LogEntry{ProblemID: string(rune('a' + i))})
	}
	return log
}

func TestCompute_RanksByCountDescending(t *testing.T) {
	store := &fakeStore{logs: map[practice.UserID]practice.ActivityLog{
		"alice":   entriesOn("2026-03-15", 3),
		"bob":     entriesOn("2026-03-15", 5),
		"charlie": entriesOn("2026-03-14", 2), // different day, excluded
	}}

	rows, err := NewAggregator(store, nil).Compute(context.Background(), "2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, []Row{
		{UserID: "bob", Count: 5},
		{UserID: "alice", Count: 3},
	}, rows)
}

func TestCompute_TieBreaksByUserIDAscending(t *testing.T) {
	store := &fakeStore{logs: map[practice.UserID]practice.ActivityLog{
		"zoe":   entriesOn("2026-03-15", 2),
		"adam":  entriesOn("2026-03-15", 2),
		"maria": entriesOn("2026-03-15", 2),
	}}

	rows, err := NewAggregator(store, nil).Compute(context.Background(), "2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, []Row{
		{UserID: "adam", Count: 2},
		{UserID: "maria", Count: 2},
		{UserID: "zoe", Count: 2},
	}, rows)
}

func TestCompute_SkipsCorruptedRecords(t *testing.T) {
	store := &fakeStore{
		logs: map[practice.UserID]practice.ActivityLog{
			"alice": entriesOn("2026-03-15", 1),
		},
		broken: map[practice.UserID]error{
			"mallory": shared.ErrStorageCorruption,
		},
	}

	rows, err := NewAggregator(store, nil).Compute(context.Background(), "2026-03-15")
	assert.NoError(t, err, "one bad record must not fail the scan")
	assert.Equal(t, []Row{{UserID: "alice", Count: 1}}, rows)
}

func TestCompute_EmptyStore(t *testing.T) {
	rows, err := NewAggregator(&fakeStore{}, nil).Compute(context.Background(), "2026-03-15")
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
