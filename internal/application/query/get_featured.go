package query

import (
	"context"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// GetFeaturedResult describes the current featured problem.
type GetFeaturedResult struct {
	ProblemID  string    `json:"problemId"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Difficulty string    `json:"difficulty"`
	URL        string    `json:"url"`
	RotatedAt  time.Time `json:"rotatedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// GetFeaturedHandler serves the rotating featured problem. The
// rotation state is an explicit dependency, not ambient global state.
type GetFeaturedHandler struct {
	rotation *catalog.Rotation
	now      func() time.Time
}

// NewGetFeaturedHandler creates the handler. now defaults to time.Now.
func NewGetFeaturedHandler(rotation *catalog.Rotation, now func() time.Time) *GetFeaturedHandler {
	if now == nil {
		now = time.Now
	}
	return &GetFeaturedHandler{rotation: rotation, now: now}
}

// Handle returns the featured problem, rotating first if due.
func (h *GetFeaturedHandler) Handle(_ context.Context) (*GetFeaturedResult, error) {
	featured, ok := h.rotation.Current(h.now())
	if !ok {
		return nil, shared.ErrNoCandidates
	}

	p := featured.Problem
	return &GetFeaturedResult{
		ProblemID:  p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Difficulty: p.Difficulty.Label(),
		URL:        p.URL(),
		RotatedAt:  featured.RotatedAt,
		ExpiresAt:  featured.ExpiresAt,
	}, nil
}
