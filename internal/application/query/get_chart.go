package query

import (
	"context"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// Named window lengths matching the front end's range choices.
const (
	RangeWeekDays  = 7
	RangeMonthDays = 30
)

// GetChartQuery requests the chart-ready daily series for one user.
// The core produces only the numeric series; rendering is external.
type GetChartQuery struct {
	UserID practice.UserID

	// ReferenceDate anchors the window. Empty means today.
	ReferenceDate string

	// WindowDays is the window length; 0 defaults to a week.
	WindowDays int
}

// Validate normalizes the query.
func (q *GetChartQuery) Validate() error {
	if !q.UserID.IsValid() {
		return shared.ErrInvalidUserID
	}
	if q.ReferenceDate == "" {
		q.ReferenceDate = timeutil.TodayKey()
	} else if !timeutil.IsValidDayKey(q.ReferenceDate) {
		return shared.ErrInvalidDateKey
	}
	if q.WindowDays == 0 {
		q.WindowDays = RangeWeekDays
	}
	if q.WindowDays < 1 {
		return shared.WrapError("query", "GetChart", shared.ErrInvalidInput, "window must be positive", nil)
	}
	return nil
}

// ChartPointDTO is one day of series data.
type ChartPointDTO struct {
	Date         string  `json:"date"`
	ProblemCount int     `json:"problemCount"`
	TimeMinutes  float64 `json:"timeMinutes"`
}

// GetChartResult holds the series, oldest day first, zero-filled.
type GetChartResult struct {
	UserID practice.UserID `json:"userId"`
	Points []ChartPointDTO `json:"points"`
}

// GetChartHandler handles chart series queries.
type GetChartHandler struct {
	store practice.LogStore
}

// NewGetChartHandler creates the handler.
func NewGetChartHandler(store practice.LogStore) *GetChartHandler {
	return &GetChartHandler{store: store}
}

// Handle executes the query.
func (h *GetChartHandler) Handle(ctx context.Context, q GetChartQuery) (*GetChartResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	series, err := practice.ComputeChartSeries(log, q.ReferenceDate, q.WindowDays)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPointDTO, len(series))
	for i, p := range series {
		points[i] = ChartPointDTO{
			Date:         p.Date,
			ProblemCount: p.ProblemCount,
			TimeMinutes:  p.TimeMinutes,
		}
	}

	return &GetChartResult{UserID: q.UserID, Points: points}, nil
}
