package query

import (
	"context"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// GetStreakQuery requests the current solving streak for one user.
type GetStreakQuery struct {
	UserID practice.UserID

	// ReferenceDate anchors the streak walk. Empty means today.
	ReferenceDate string
}

// Validate normalizes the query.
func (q *GetStreakQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.ErrInvalidUserID
	}
	if q.ReferenceDate == "" {
		q.ReferenceDate = timeutil.TodayKey()
	} else if !timeutil.IsValidDayKey(q.ReferenceDate) {
		return shared.ErrInvalidDateKey
	}
	return nil
}

// GetStreakResult holds the streak count.
type GetStreakResult struct {
	UserID        practice.UserID `json:"userId"`
	ReferenceDate string          `json:"referenceDate"`
	StreakDays    int             `json:"streakDays"`
}

// GetStreakHandler handles streak queries.
type GetStreakHandler struct {
	store practice.LogStore
}

// NewGetStreakHandler creates the handler.
func NewGetStreakHandler(store practice.LogStore) *GetStreakHandler {
	return &GetStreakHandler{store: store}
}

// Handle executes the query.
func (h *GetStreakHandler) Handle(ctx context.Context, q GetStreakQuery) (*GetStreakResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	return &GetStreakResult{
		UserID:        q.UserID,
		ReferenceDate: q.ReferenceDate,
		StreakDays:    practice.Streak(log, q.ReferenceDate),
	}, nil
}
