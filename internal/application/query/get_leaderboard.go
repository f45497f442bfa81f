package query

import (
	"context"
	"errors"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/domain/leaderboard"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/logger"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// GetLeaderboardQuery requests the ranking for one day.
type GetLeaderboardQuery struct {
	// Date is the day to rank (YYYY-MM-DD). Empty means today.
	Date string
}

// Validate normalizes the query.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Date == "" {
		q.Date = timeutil.TodayKey()
	} else if !timeutil.IsValidDayKey(q.Date) {
		return shared.ErrInvalidDateKey
	}
	return nil
}

// GetLeaderboardResult holds the ranked rows. An empty Rows slice is a
// valid outcome: nobody logged anything on that day yet.
type GetLeaderboardResult struct {
	Date        string            `json:"date"`
	Rows        []leaderboard.Row `json:"rows"`
	FromCache   bool              `json:"fromCache"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// BoardCache serves a previously computed board. Optional; a nil cache
// means every query rescans the store.
type BoardCache interface {
	Get(ctx context.Context, date string) ([]leaderboard.Row, error)
	Set(ctx context.Context, date string, rows []leaderboard.Row) error
}

// GetLeaderboardHandler handles daily leaderboard queries.
type GetLeaderboardHandler struct {
	aggregator *leaderboard.Aggregator
	cache      BoardCache
	log        *logger.Logger
}

// NewGetLeaderboardHandler creates the handler.
func NewGetLeaderboardHandler(aggregator *leaderboard.Aggregator, cache BoardCache, log *logger.Logger) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{aggregator: aggregator, cache: cache, log: log}
}

// Handle executes the query, preferring the cache when present.
// Cache failures fall through to a fresh scan; the board must stay
// servable without Redis.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil {
		rows, err := h.cache.Get(ctx, q.Date)
		if err == nil {
			return &GetLeaderboardResult{
				Date:        q.Date,
				Rows:        rows,
				FromCache:   true,
				GeneratedAt: time.Now(),
			}, nil
		}
		if !errors.Is(err, context.Canceled) {
			h.log.Debug("leaderboard cache miss", logger.DateKey(q.Date), logger.Err(err))
		}
	}

	rows, err := h.aggregator.Compute(ctx, q.Date)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, q.Date, rows); err != nil {
			h.log.Warn("failed to cache leaderboard", logger.DateKey(q.Date), logger.Err(err))
		}
	}

	return &GetLeaderboardResult{
		Date:        q.Date,
		Rows:        rows,
		GeneratedAt: time.Now(),
	}, nil
}
