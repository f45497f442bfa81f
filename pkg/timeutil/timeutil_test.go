package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey_UsesReferenceTimezone(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in the reference timezone.
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-15", DayKey(late))
}

func TestParseDayKey(t *testing.T) {
	day, err := ParseDayKey("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, 2026, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 15, day.Day())
	assert.Equal(t, ReferenceTZ, day.Location())

	_, err = ParseDayKey("15-03-2026")
	assert.Error(t, err)
}

func TestIsValidDayKey(t *testing.T) {
	assert.True(t, IsValidDayKey("2026-01-31"))
	assert.False(t, IsValidDayKey(""))
	assert.False(t, IsValidDayKey("2026-1-31"))
	assert.False(t, IsValidDayKey("2026-02-30"))
	assert.False(t, IsValidDayKey("not-a-date"))
}

func TestAddDays(t *testing.T) {
	key, err := AddDays("2026-03-01", -1)
	assert.NoError(t, err)
	assert.Equal(t, "2026-02-28", key)

	key, err = AddDays("2025-12-31", 1)
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-01", key)
}

func TestWindowKeys(t *testing.T) {
	keys, err := WindowKeys("2026-03-03", 3)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03"}, keys)
}

func TestWindowKeys_SingleDay(t *testing.T) {
	keys, err := WindowKeys("2026-03-03", 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-03-03"}, keys)
}

func TestWindowKeys_CrossesMonthBoundary(t *testing.T) {
	keys, err := WindowKeys("2026-03-02", 4)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, keys)
}

func TestWindowKeys_Invalid(t *testing.T) {
	_, err := WindowKeys("2026-03-03", 0)
	assert.Error(t, err)

	_, err = WindowKeys("garbage", 7)
	assert.Error(t, err)
}
