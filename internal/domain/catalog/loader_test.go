package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_StatStatusPairsEnvelope(t *testing.T) {
	data := []byte(`{
		"stat_status_pairs": [
			{
				"stat": {
					"frontend_question_id": 1,
					"question__title": "Two Sum",
					"question__title_slug": "two-sum"
				},
				"difficulty": {"level": 1},
				"paid_only": false
			},
			{
				"stat": {
					"frontend_question_id": 156,
					"question__title": "Binary Tree Upside Down",
					"question__title_slug": "binary-tree-upside-down"
				},
				"difficulty": {"level": 2},
				"paid_only": true
			}
		]
	}`)

	idx, err := Parse(data)
	assert.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	p, ok := idx.LookupByID("1")
	assert.True(t, ok)
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, "two-sum", p.Slug)
	assert.Equal(t, DifficultyEasy, p.Difficulty)
	assert.False(t, p.PaidOnly)

	p, ok = idx.LookupByID("156")
	assert.True(t, ok)
	assert.True(t, p.PaidOnly)
	assert.Equal(t, DifficultyMedium, p.Difficulty)
}

func TestParse_FlatArray(t *testing.T) {
	data := []byte(`[
		{"id": "1", "title": "Two Sum", "slug": "two-sum", "difficultyLevel": 1},
		{"id": 4, "title": "Median of Two Sorted Arrays", "difficultyLevel": 3}
	]`)

	idx, err := Parse(data)
	assert.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	// Numeric id and derived slug both normalize.
	p, ok := idx.LookupByID("4")
	assert.True(t, ok)
	assert.Equal(t, "median-of-two-sorted-arrays", p.Slug)
	assert.Equal(t, DifficultyHard, p.Difficulty)
}

func TestParse_UnrecognizedFormat(t *testing.T) {
	_, err := Parse([]byte(`{"problems": "nope"}`))
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("does-not-exist.json")
	assert.Error(t, err)
}
