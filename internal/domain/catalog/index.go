package catalog

import (
	"math/rand"

	"github.com/gosimple/slug"

	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// LookupFunc resolves a problem id to its catalog metadata.
// It is the only coupling the rest of the system has to the catalog:
// a pure function from id to optional metadata.
type LookupFunc func(id string) (Problem, bool)

// Index is the in-memory index over the static catalog.
// Built once at process start; safe for concurrent readers.
type Index struct {
	byID     map[string]Problem
	problems []Problem
}

// NewIndex builds an index from catalog records. Ids are normalized,
// missing slugs are derived from the title, and duplicate ids are
// rejected so every lookup has exactly one answer.
func NewIndex(problems []Problem) (*Index, error) {
	if len(problems) == 0 {
		return nil, shared.ErrCatalogEmpty
	}

	idx := &Index{
		byID:     make(map[string]Problem, len(problems)),
		problems: make([]Problem, 0, len(problems)),
	}

	for _, p := range problems {
		p.ID = NormalizeID(p.ID)
		if p.ID == "" {
			return nil, shared.WrapError("catalog", "Build", shared.ErrInvalidID, "problem with empty id", nil)
		}
		if !p.Difficulty.IsValid() {
			return nil, shared.WrapError("catalog", "Build", shared.ErrInvalidInput,
				"problem "+p.ID+" has no valid difficulty", nil)
		}
		if p.Slug == "" {
			p.Slug = slug.Make(p.Title)
		}
		if _, dup := idx.byID[p.ID]; dup {
			return nil, shared.WrapError("catalog", "Build", shared.ErrAlreadyExists,
				"duplicate problem id "+p.ID, nil)
		}
		idx.byID[p.ID] = p
		idx.problems = append(idx.problems, p)
	}

	return idx, nil
}

// LookupByID resolves a problem by id, normalizing the id first.
// The second return is false when the catalog does not know the id.
func (idx *Index) LookupByID(id string) (Problem, bool) {
	p, ok := idx.byID[NormalizeID(id)]
	return p, ok
}

// Len returns the number of problems in the catalog.
func (idx *Index) Len() int {
	return len(idx.problems)
}

// Problems returns a copy of all catalog records.
func (idx *Index) Problems() []Problem {
	out := make([]Problem, len(idx.problems))
	copy(out, idx.problems)
	return out
}

// RandomUnsolved picks a random non-premium problem the user has not
// solved yet, optionally filtered by difficulty (0 = any). The solved
// set holds canonical problem ids. Returns false when nothing matches.
func (idx *Index) RandomUnsolved(solved map[string]struct{}, difficulty Difficulty, rng *rand.Rand) (Problem, bool) {
	candidates := make([]Problem, 0, len(idx.problems))
	for _, p := range idx.problems {
		if p.PaidOnly {
			continue
		}
		if difficulty != 0 && p.Difficulty != difficulty {
			continue
		}
		if _, done := solved[p.ID]; done {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return Problem{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// RandomNonPremium picks any random non-premium problem, used by the
// featured-problem rotation. Returns false for an all-premium catalog.
func (idx *Index) RandomNonPremium(rng *rand.Rand) (Problem, bool) {
	return idx.RandomUnsolved(nil, 0, rng)
}
