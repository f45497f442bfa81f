package query

import (
	"context"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// GetBreakdownQuery requests the full-history difficulty breakdown.
type GetBreakdownQuery struct {
	UserID practice.UserID
}

// GetBreakdownResult holds per-difficulty counts. Entries whose ids no
// longer resolve in the catalog are excluded from all three counts.
type GetBreakdownResult struct {
	UserID practice.UserID `json:"userId"`
	Easy   int             `json:"easy"`
	Medium int             `json:"medium"`
	Hard   int             `json:"hard"`
}

// GetBreakdownHandler handles difficulty breakdown queries.
type GetBreakdownHandler struct {
	store  practice.LogStore
	lookup catalog.LookupFunc
}

// NewGetBreakdownHandler creates the handler.
func NewGetBreakdownHandler(store practice.LogStore, lookup catalog.LookupFunc) *GetBreakdownHandler {
	return &GetBreakdownHandler{store: store, lookup: lookup}
}

// Handle executes the query.
func (h *GetBreakdownHandler) Handle(ctx context.Context, q GetBreakdownQuery) (*GetBreakdownResult, error) {
	if !q.UserID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	breakdown := practice.ComputeDifficultyBreakdown(log, h.lookup)
	return &GetBreakdownResult{
		UserID: q.UserID,
		Easy:   breakdown.Easy,
		Medium: breakdown.Medium,
		Hard:   breakdown.Hard,
	}, nil
}
