// Package practice contains the activity-log data model and its
// derived-statistics engine: the per-user record structure, the
// idempotent append operation, and the read-side computations
// (streak, windowed totals, difficulty breakdown, chart series,
// profile summary). All engine functions are pure over their inputs.
package practice

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// UserID is the opaque, caller-supplied identity that owns an activity
// log. The core does not interpret its structure.
type UserID string

// IsValid checks if the user ID is valid.
func (u UserID) IsValid() bool {
	return u != ""
}

// String returns the string representation of UserID.
func (u UserID) String() string {
	return string(u)
}

// LogEntry is one recorded instance of solving a problem. Title and
// slug are denormalized copies captured at log time, so historical
// entries remain valid even if the catalog later changes. Entries are
// immutable once created.
type LogEntry struct {
	ProblemID        string
	Title            string
	Slug             string
	TimeTakenMinutes float64
	LookedUpSolution bool
}

// Persisted layout per entry:
//
//	{"problemId": "1", "title": "Two Sum", "slug": "two-sum",
//	 "timeTaken": 25, "lookedUp": "no"}
//
// Historical records are looser: problemId may be a JSON number,
// timeTaken a quoted string, lookedUp a bare bool. Reading normalizes
// all of these; writing always emits the canonical form above, with
// lookedUp as a "yes"/"no" string to round-trip old records. A
// non-numeric timeTaken coerces to 0 rather than failing the query.
type wireEntry struct {
	ProblemID json.RawMessage `json:"problemId"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	TimeTaken json.RawMessage `json:"timeTaken"`
	LookedUp  json.RawMessage `json:"lookedUp"`
}

type canonicalEntry struct {
	ProblemID string  `json:"problemId"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	TimeTaken float64 `json:"timeTaken"`
	LookedUp  string  `json:"lookedUp"`
}

// MarshalJSON writes the canonical persisted form.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	lookedUp := "no"
	if e.LookedUpSolution {
		lookedUp = "yes"
	}
	return json.Marshal(canonicalEntry{
		ProblemID: e.ProblemID,
		Title:     e.Title,
		Slug:      e.Slug,
		TimeTaken: e.TimeTakenMinutes,
		LookedUp:  lookedUp,
	})
}

// UnmarshalJSON reads either the canonical or the historical loose form.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ProblemID = rawToString(w.ProblemID)
	e.Title = w.Title
	e.Slug = w.Slug
	e.TimeTakenMinutes = rawToMinutes(w.TimeTaken)
	e.LookedUpSolution = rawToLookedUp(w.LookedUp)
	return nil
}

// rawToString accepts a JSON string or number and returns its text.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// rawToMinutes accepts a JSON number or a numeric string.
// Non-numeric values coerce to 0 (fail-closed for sums).
func rawToMinutes(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// rawToLookedUp accepts "yes"/"no" strings or a bare bool.
func rawToLookedUp(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "yes")
	}
	return false
}

// ActivityLog is a per-user mapping from calendar date key
// (YYYY-MM-DD, fixed reference timezone) to the ordered entries logged
// that day. Within a date bucket problem ids are unique and entries
// are never removed, only appended. The whole log is the unit of
// atomic read/overwrite in storage.
type ActivityLog map[string][]LogEntry

// NewActivityLog returns an empty log, the implicit state of a user
// who has never logged anything.
func NewActivityLog() ActivityLog {
	return make(ActivityLog)
}

// Clone returns a copy that shares no bucket slices with the original.
func (l ActivityLog) Clone() ActivityLog {
	out := make(ActivityLog, len(l))
	for date, entries := range l {
		bucket := make([]LogEntry, len(entries))
		copy(bucket, entries)
		out[date] = bucket
	}
	return out
}

// Dates returns all date keys with at least one entry, in chronological
// order. Lexicographic sort is valid because keys are fixed-width ISO
// dates.
func (l ActivityLog) Dates() []string {
	dates := make([]string, 0, len(l))
	for date, entries := range l {
		if len(entries) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// FirstLoggedDate returns the earliest date key with an entry, or ""
// for an empty log.
func (l ActivityLog) FirstLoggedDate() string {
	dates := l.Dates()
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}

// TotalProblems counts entries across all date buckets.
func (l ActivityLog) TotalProblems() int {
	total := 0
	for _, entries := range l {
		total += len(entries)
	}
	return total
}

// TotalTimeMinutes sums time across all date buckets.
func (l ActivityLog) TotalTimeMinutes() float64 {
	total := 0.0
	for _, entries := range l {
		for _, e := range entries {
			total += e.TimeTakenMinutes
		}
	}
	return total
}

// CountOn returns the number of entries logged on the given date.
func (l ActivityLog) CountOn(date string) int {
	return len(l[date])
}

// HasProblemOn reports whether the problem is already logged on the
// given date. Used by the append idempotency guard.
func (l ActivityLog) HasProblemOn(date, problemID string) bool {
	for _, e := range l[date] {
		if e.ProblemID == problemID {
			return true
		}
	}
	return false
}

// SolvedProblemIDs returns the set of all problem ids ever logged,
// across the full history. Feeds the random-unsolved picker.
func (l ActivityLog) SolvedProblemIDs() map[string]struct{} {
	solved := make(map[string]struct{})
	for _, entries := range l {
		for _, e := range entries {
			solved[e.ProblemID] = struct{}{}
		}
	}
	return solved
}
