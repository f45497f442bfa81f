package query

import (
	"context"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// GetProfileQuery requests the profile summary for one user.
type GetProfileQuery struct {
	UserID practice.UserID

	// ReferenceDate anchors the streak. Empty means today.
	ReferenceDate string
}

// Validate normalizes the query.
func (q *GetProfileQuery) Validate() error {
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

// GetProfileResult is the aggregate profile view.
// FirstLoggedDate is "" for a user who never logged anything;
// AverageTimeMinutes is 0 in that case, never a division error.
type GetProfileResult struct {
	UserID             practice.UserID `json:"userId"`
	FirstLoggedDate    string          `json:"firstLoggedDate,omitempty"`
	TotalProblems      int             `json:"totalProblems"`
	AverageTimeMinutes float64         `json:"averageTimeMinutes"`
	CurrentStreak      int             `json:"currentStreak"`
}

// GetProfileHandler handles profile queries.
type GetProfileHandler struct {
	store practice.LogStore
}

// NewGetProfileHandler creates the handler.
func NewGetProfileHandler(store practice.LogStore) *GetProfileHandler {
	return &GetProfileHandler{store: store}
}

// Handle executes the query.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*GetProfileResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	summary := practice.ComputeProfileSummary(log, q.ReferenceDate)
	return &GetProfileResult{
		UserID:             q.UserID,
		FirstLoggedDate:    summary.FirstLoggedDate,
		TotalProblems:      summary.TotalProblems,
		AverageTimeMinutes: summary.AverageTimeMinutes,
		CurrentStreak:      summary.CurrentStreak,
	}, nil
}
