package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// The catalog ships in the upstream problems.json layout: an envelope
// with stat_status_pairs, each pair nesting the interesting fields
// under "stat" and "difficulty". Ids arrive as JSON numbers there, so
// json.Number keeps them lossless until normalization.
type catalogFile struct {
	StatStatusPairs []statStatusPair `json:"stat_status_pairs"`
}

type statStatusPair struct {
	Stat struct {
		FrontendQuestionID json.Number `json:"frontend_question_id"`
		QuestionTitle      string      `json:"question__title"`
		QuestionTitleSlug  string      `json:"question__title_slug"`
	} `json:"stat"`
	Difficulty struct {
		Level int `json:"level"`
	} `json:"difficulty"`
	PaidOnly bool `json:"paid_only"`
}

// flatProblem is the alternative flat layout, convenient for tests and
// hand-maintained catalogs.
type flatProblem struct {
	ID              json.Number `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	DifficultyLevel int         `json:"difficultyLevel"`
	PaidOnly        bool        `json:"paidOnly"`
}

// LoadFile reads a catalog file and builds the index. Both the
// upstream stat_status_pairs envelope and a flat JSON array of
// problems are accepted.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds the index from raw catalog JSON.
func Parse(data []byte) (*Index, error) {
	var envelope catalogFile
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.StatStatusPairs) > 0 {
		problems := make([]Problem, 0, len(envelope.StatStatusPairs))
		for _, pair := range envelope.StatStatusPairs {
			problems = append(problems, Problem{
				ID:         pair.Stat.FrontendQuestionID.String(),
				Title:      pair.Stat.QuestionTitle,
				Slug:       pair.Stat.QuestionTitleSlug,
				Difficulty: Difficulty(pair.Difficulty.Level),
				PaidOnly:   pair.PaidOnly,
			})
		}
		return NewIndex(problems)
	}

	var flat []flatProblem
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("catalog: unrecognized catalog format: %w", err)
	}
	problems := make([]Problem, 0, len(flat))
	for _, fp := range flat {
		problems = append(problems, Problem{
			ID:         fp.ID.String(),
			Title:      fp.Title,
			Slug:       fp.Slug,
			Difficulty: Difficulty(fp.DifficultyLevel),
			PaidOnly:   fp.PaidOnly,
		})
	}
	return NewIndex(problems)
}
