// Package query contains read operations following the CQRS split.
// Queries never modify state; each is a self-contained use case with
// its own request/response types. All derived values are computed by
// the pure engine in internal/domain/practice over a freshly loaded
// log, so handlers here are thin: validate, load, compute.
package query

import (
	"context"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// GetStatsQuery requests windowed totals for one user.
type GetStatsQuery struct {
	// UserID is the identity to report on.
	UserID practice.UserID

	// ReferenceDate anchors the window (YYYY-MM-DD). Empty means today.
	ReferenceDate string

	// WindowDays is the inclusive window length. 0 defaults to 1
	// (just the reference date itself).
	WindowDays int
}

// Validate normalizes the query.
func (q *GetStatsQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.ErrInvalidUserID
	}
	if q.ReferenceDate == "" {
		q.ReferenceDate = timeutil.TodayKey()
	} else if !timeutil.IsValidDayKey(q.ReferenceDate) {
		return shared.ErrInvalidDateKey
	}
	if q.WindowDays == 0 {
		q.WindowDays = 1
	}
	if q.WindowDays < 1 {
		return shared.WrapError("query", "GetStats", shared.ErrInvalidInput, "window must be positive", nil)
	}
	return nil
}

// GetStatsResult holds the windowed totals.
type GetStatsResult struct {
	UserID           practice.UserID `json:"userId"`
	ReferenceDate    string          `json:"referenceDate"`
	WindowDays       int             `json:"windowDays"`
	TotalProblems    int             `json:"totalProblems"`
	TotalTimeMinutes float64         `json:"totalTimeMinutes"`
}

// GetStatsHandler handles windowed stats queries.
type GetStatsHandler struct {
	store practice.LogStore
}

// NewGetStatsHandler creates the handler.
func NewGetStatsHandler(store practice.LogStore) *GetStatsHandler {
	return &GetStatsHandler{store: store}
}

// Handle executes the query.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*GetStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	stats, err := practice.ComputeWindowStats(log, q.ReferenceDate, q.WindowDays)
	if err != nil {
		return nil, err
	}

	return &GetStatsResult{
		UserID:           q.UserID,
		ReferenceDate:    q.ReferenceDate,
		WindowDays:       q.WindowDays,
		TotalProblems:    stats.TotalProblems,
		TotalTimeMinutes: stats.TotalTimeMinutes,
	}, nil
}
