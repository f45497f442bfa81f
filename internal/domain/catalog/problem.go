// Package catalog provides the static problem catalog: an immutable,
// in-memory index over the problem universe, keyed by problem id.
// It is built once at process start and read-only thereafter.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Difficulty is the catalog's difficulty classification.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Label returns the human-readable difficulty name.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// IsValid checks if the difficulty is one of the three known levels.
func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// ParseDifficulty parses a difficulty name ("easy", "Medium", ...).
// An empty string parses to 0, meaning "any difficulty".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("catalog: unknown difficulty %q", s)
	}
}

// Problem is one immutable record of the static catalog.
type Problem struct {
	// ID is the stable problem identifier in canonical string form.
	ID string

	// Title is the display title.
	Title string

	// Slug is the URL-safe identifier.
	Slug string

	// Difficulty is the 1/2/3 classification.
	Difficulty Difficulty

	// PaidOnly marks premium problems, excluded from random picks
	// and featured rotation.
	PaidOnly bool
}

// URL returns the public problem URL.
func (p Problem) URL() string {
	return fmt.Sprintf("https://leetcode.com/problems/%s/", p.Slug)
}

// NormalizeID converts a caller-supplied problem id into its canonical
// string form. Ids may arrive as strings or numbers; numeric strings
// are re-rendered without leading zeros or surrounding whitespace so
// that "007", " 7" and 7 all compare equal.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return s
}
