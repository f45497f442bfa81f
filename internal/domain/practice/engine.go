package practice

import (
	"math"

	"github.com/grindhub/grind-practice-hub/internal/domain/catalog"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/timeutil"
)

// Append validates and records one solved problem for the given day.
// It is purely functional: the input log is never mutated, the updated
// log is returned alongside the created entry, and persisting the
// result is the caller's responsibility.
//
// The duplicate check runs before the catalog lookup: re-logging a
// problem already in the day's bucket fails with ErrDuplicateEntry
// without touching the catalog. An id the catalog cannot resolve fails
// with ErrProblemNotFound; the engine never logs an unknown problem.
func Append(
	log ActivityLog,
	date string,
	problemID string,
	timeTakenMinutes float64,
	lookedUpSolution bool,
	lookup catalog.LookupFunc,
) (ActivityLog, LogEntry, error) {
	if !timeutil.IsValidDayKey(date) {
		return nil, LogEntry{}, shared.ErrInvalidDateKey
	}
	if math.IsNaN(timeTakenMinutes) || math.IsInf(timeTakenMinutes, 0) || timeTakenMinutes < 0 {
		return nil, LogEntry{}, shared.ErrInvalidTimeTaken
	}

	id := catalog.NormalizeID(problemID)
	if id == "" {
		return nil, LogEntry{}, shared.WrapError("practice", "Append", shared.ErrInvalidID, "empty problem id", nil)
	}

	if log.HasProblemOn(date, id) {
		return nil, LogEntry{}, shared.ErrDuplicateEntry
	}

	problem, ok := lookup(id)
	if !ok {
		return nil, LogEntry{}, shared.ErrProblemNotFound
	}

	entry := LogEntry{
		ProblemID:        id,
		Title:            problem.Title,
		Slug:             problem.Slug,
		TimeTakenMinutes: timeTakenMinutes,
		LookedUpSolution: lookedUpSolution,
	}

	updated := log.Clone()
	updated[date] = append(updated[date], entry)
	return updated, entry, nil
}

// Streak counts consecutive calendar days with at least one entry,
// starting at the reference date and walking strictly backward. The
// walk stops at the first empty day, so an empty reference date gives
// a streak of 0 regardless of earlier history.
func Streak(log ActivityLog, referenceDate string) int {
	day, err := timeutil.ParseDayKey(referenceDate)
	if err != nil {
		return 0
	}

	streak := 0
	for {
		if log.CountOn(timeutil.DayKey(day)) == 0 {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// WindowStats holds windowed aggregate totals.
type WindowStats struct {
	TotalProblems    int
	TotalTimeMinutes float64
}

// ComputeWindowStats sums entry counts and time over the inclusive
// window of windowDays consecutive calendar days ending at the
// reference date. Missing date buckets contribute zero.
func ComputeWindowStats(log ActivityLog, referenceDate string, windowDays int) (WindowStats, error) {
	keys, err := timeutil.WindowKeys(referenceDate, windowDays)
	if err != nil {
		return WindowStats{}, shared.WrapError("practice", "WindowStats", shared.ErrInvalidDate, "bad window", err)
	}

	var stats WindowStats
	for _, key := range keys {
		for _, e := range log[key] {
			stats.TotalProblems++
			stats.TotalTimeMinutes += e.TimeTakenMinutes
		}
	}
	return stats, nil
}

// DifficultyBreakdown holds full-history counts per difficulty.
type DifficultyBreakdown struct {
	Easy   int
	Medium int
	Hard   int
}

// ComputeDifficultyBreakdown resolves every entry in the full history
// through the catalog and buckets it by difficulty. Entries whose id
// no longer resolves are silently skipped: catalogs may be pruned, and
// those entries still count toward total history elsewhere.
func ComputeDifficultyBreakdown(log ActivityLog, lookup catalog.LookupFunc) DifficultyBreakdown {
	var breakdown DifficultyBreakdown
	for _, entries := range log {
		for _, e := range entries {
			problem, ok := lookup(e.ProblemID)
			if !ok {
				continue
			}
			switch problem.Difficulty {
			case catalog.DifficultyEasy:
				breakdown.Easy++
			case catalog.DifficultyMedium:
				breakdown.Medium++
			case catalog.DifficultyHard:
				breakdown.Hard++
			}
		}
	}
	return breakdown
}

// ChartPoint is one day of chart-ready series data.
type ChartPoint struct {
	Date         string
	ProblemCount int
	TimeMinutes  float64
}

// ComputeChartSeries produces one point per calendar day over the same
// inclusive window as ComputeWindowStats, oldest first, zero-filled
// for days with no activity. This is the only query whose result order
// is tied to calendar order.
func ComputeChartSeries(log ActivityLog, referenceDate string, windowDays int) ([]ChartPoint, error) {
	keys, err := timeutil.WindowKeys(referenceDate, windowDays)
	if err != nil {
		return nil, shared.WrapError("practice", "ChartSeries", shared.ErrInvalidDate, "bad window", err)
	}

	series := make([]ChartPoint, len(keys))
	for i, key := range keys {
		point := ChartPoint{Date: key}
		for _, e := range log[key] {
			point.ProblemCount++
			point.TimeMinutes += e.TimeTakenMinutes
		}
		series[i] = point
	}
	return series, nil
}

// ProfileSummary is the aggregate profile view of a log.
type ProfileSummary struct {
	FirstLoggedDate    string
	TotalProblems      int
	AverageTimeMinutes float64
	CurrentStreak      int
}

// ComputeProfileSummary derives the profile view: earliest logged
// date, total problems, average minutes per problem (0 for an empty
// log, never a division error), and the current streak anchored at the
// reference date.
func ComputeProfileSummary(log ActivityLog, referenceDate string) ProfileSummary {
	summary := ProfileSummary{
		FirstLoggedDate: log.FirstLoggedDate(),
		TotalProblems:   log.TotalProblems(),
		CurrentStreak:   Streak(log, referenceDate),
	}
	if summary.TotalProblems > 0 {
		summary.AverageTimeMinutes = log.TotalTimeMinutes() / float64(summary.TotalProblems)
	}
	return summary
}
