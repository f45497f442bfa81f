package query

import (
	"context"
	"math/rand"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// GetRandomProblemQuery requests a random unsolved, non-premium
// problem for a user, optionally filtered by difficulty.
type GetRandomProblemQuery struct {
	UserID practice.UserID

	// Difficulty filters the pool: "easy", "medium", "hard" or "".
	Difficulty string
}

// GetRandomProblemResult holds the picked problem.
type GetRandomProblemResult struct {
	ProblemID  string `json:"problemId"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Difficulty string `json:"difficulty"`
	URL        string `json:"url"`
}

// GetRandomProblemHandler handles random problem picks.
type GetRandomProblemHandler struct {
	store practice.LogStore
	index *catalog.Index
	rng   *rand.Rand
}

// NewGetRandomProblemHandler creates the handler. The rng is owned by
// the handler; pass a seeded source in tests for determinism.
func NewGetRandomProblemHandler(store practice.LogStore, index *catalog.Index, rng *rand.Rand) *GetRandomProblemHandler {
	return &GetRandomProblemHandler{store: store, index: index, rng: rng}
}

// Handle executes the query. When every matching problem is already
// solved the result is ErrNoCandidates, a user-facing "you may have
// solved them all" condition.
func (h *GetRandomProblemHandler) Handle(ctx context.Context, q GetRandomProblemQuery) (*GetRandomProblemResult, error) {
	if !q.UserID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	difficulty, err := catalog.ParseDifficulty(q.Difficulty)
	if err != nil {
		return nil, shared.WrapError("query", "GetRandomProblem", shared.ErrInvalidInput, err.Error(), err)
	}

	log, err := h.store.Load(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	problem, ok := h.index.RandomUnsolved(log.SolvedProblemIDs(), difficulty, h.rng)
	if !ok {
		return nil, shared.ErrNoCandidates
	}

	return &GetRandomProblemResult{
		ProblemID:  problem.ID,
		Title:      problem.Title,
		Slug:       problem.Slug,
		Difficulty: problem.Difficulty.Label(),
		URL:        problem.URL(),
	}, nil
}
