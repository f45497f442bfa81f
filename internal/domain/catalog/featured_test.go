package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRotation_CurrentRefreshesAfterInterval(t *testing.T) {
	idx, err := NewIndex(testProblems())
	assert.NoError(t, err)

	rotation := NewRotation(idx, 5*time.Minute, 1)
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	first, ok := rotation.Current(start)
	assert.True(t, ok)
	assert.Equal(t, start, first.RotatedAt)
	assert.Equal(t, start.Add(5*time.Minute), first.ExpiresAt)
	assert.False(t, first.Problem.PaidOnly)

	// Within the interval the same problem stays featured.
	mid, ok := rotation.Current(start.Add(3 * time.Minute))
	assert.True(t, ok)
	assert.Equal(t, first.Problem.ID, mid.Problem.ID)
	assert.Equal(t, start, mid.RotatedAt)

	// At the interval boundary the rotation refreshes.
	later, ok := rotation.Current(start.Add(5 * time.Minute))
	assert.True(t, ok)
	assert.Equal(t, start.Add(5*time.Minute), later.RotatedAt)
}

func TestRotation_RefreshForcesRotation(t *testing.T) {
	idx, err := NewIndex(testProblems())
	assert.NoError(t, err)

	rotation := NewRotation(idx, time.Hour, 1)
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	_, ok := rotation.Current(start)
	assert.True(t, ok)

	refreshed, ok := rotation.Refresh(start.Add(time.Minute))
	assert.True(t, ok)
	assert.Equal(t, start.Add(time.Minute), refreshed.RotatedAt)
}

func TestRotation_AllPremiumCatalog(t *testing.T) {
	idx, err := NewIndex([]Problem{
		{ID: "156", Title: "Binary Tree Upside Down", Difficulty: DifficultyMedium, PaidOnly: true},
	})
	assert.NoError(t, err)

	rotation := NewRotation(idx, time.Minute, 1)
	_, ok := rotation.Current(time.Now())
	assert.False(t, ok)
}
