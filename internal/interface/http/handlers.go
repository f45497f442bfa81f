package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/application/command"
	"github.com/grindhub/grind-practice-hub/internal/application/query"
	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// Handlers binds the application layer's use cases to routes.
// Featured may be nil when rotation is disabled.
type Handlers struct {
	LogProblemCmd *command.LogProblemHandler
	StatsQ        *query.GetStatsHandler
	StreakQ       *query.GetStreakHandler
	BreakdownQ    *query.GetBreakdownHandler
	ChartQ        *query.GetChartHandler
	ProfileQ      *query.GetProfileHandler
	LeaderboardQ  *query.GetLeaderboardHandler
	RandomQ       *query.GetRandomProblemHandler
	FeaturedQ     *query.GetFeaturedHandler

	StartedAt time.Time
	Version   string
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.Version,
		"uptime":  time.Since(h.StartedAt).String(),
	})
}

// logRequest is the wire shape of an append submission.
type logRequest struct {
	ProblemID string `json:"problemId"`
	TimeTaken string `json:"timeTaken"`
	LookedUp  string `json:"lookedUp"`
	Date      string `json:"date,omitempty"`
}

// logResponse confirms a persisted entry.
type logResponse struct {
	ProblemID string  `json:"problemId"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	URL       string  `json:"url"`
	Date      string  `json:"date"`
	TimeTaken float64 `json:"timeTaken"`
	LookedUp  bool    `json:"lookedUp"`
}

// LogProblem handles POST /api/v1/users/{id}/log.
func (h *Handlers) LogProblem(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, shared.WrapError("http", "LogProblem", shared.ErrInvalidInput, "malformed JSON body", err))
		return
	}

	result, err := h.LogProblemCmd.Handle(r.Context(), command.LogProblemCommand{
		UserID:    practice.UserID(r.PathValue("id")),
		ProblemID: req.ProblemID,
		TimeTaken: req.TimeTaken,
		LookedUp:  req.LookedUp,
		Date:      req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, logResponse{
		ProblemID: result.Entry.ProblemID,
		Title:     result.Entry.Title,
		Slug:      result.Entry.Slug,
		URL:       result.Problem.URL(),
		Date:      result.Date,
		TimeTaken: result.Entry.TimeTakenMinutes,
		LookedUp:  result.Entry.LookedUpSolution,
	})
}

// windowDays translates the front end's range vocabulary. An explicit
// date means "that single day", matching the original bot's /stats.
func windowDays(r *http.Request) int {
	switch r.URL.Query().Get("range") {
	case "week":
		return query.RangeWeekDays
	case "month":
		return query.RangeMonthDays
	case "", "today":
		return 1
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("range")); err == nil {
		return n
	}
	return 1
}

// Stats handles GET /api/v1/users/{id}/stats?date=&range=.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.StatsQ.Handle(r.Context(), query.GetStatsQuery{
		UserID:        practice.UserID(r.PathValue("id")),
		ReferenceDate: r.URL.Query().Get("date"),
		WindowDays:    windowDays(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Streak handles GET /api/v1/users/{id}/streak.
func (h *Handlers) Streak(w http.ResponseWriter, r *http.Request) {
	result, err := h.StreakQ.Handle(r.Context(), query.GetStreakQuery{
		UserID:        practice.UserID(r.PathValue("id")),
		ReferenceDate: r.URL.Query().Get("date"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Breakdown handles GET /api/v1/users/{id}/problems.
func (h *Handlers) Breakdown(w http.ResponseWriter, r *http.Request) {
	result, err := h.BreakdownQ.Handle(r.Context(), query.GetBreakdownQuery{
		UserID: practice.UserID(r.PathValue("id")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Chart handles GET /api/v1/users/{id}/chart?range=week|month.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	days := windowDays(r)
	if days == 1 {
		days = query.RangeWeekDays
	}
	result, err := h.ChartQ.Handle(r.Context(), query.GetChartQuery{
		UserID:        practice.UserID(r.PathValue("id")),
		ReferenceDate: r.URL.Query().Get("date"),
		WindowDays:    days,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Profile handles GET /api/v1/users/{id}/profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	result, err := h.ProfileQ.Handle(r.Context(), query.GetProfileQuery{
		UserID: practice.UserID(r.PathValue("id")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Leaderboard handles GET /api/v1/leaderboard?date=.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.LeaderboardQ.Handle(r.Context(), query.GetLeaderboardQuery{
		Date: r.URL.Query().Get("date"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RandomProblem handles GET /api/v1/users/{id}/random?difficulty=.
func (h *Handlers) RandomProblem(w http.ResponseWriter, r *http.Request) {
	result, err := h.RandomQ.Handle(r.Context(), query.GetRandomProblemQuery{
		UserID:     practice.UserID(r.PathValue("id")),
		Difficulty: r.URL.Query().Get("difficulty"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Featured handles GET /api/v1/problems/featured.
func (h *Handlers) Featured(w http.ResponseWriter, r *http.Request) {
	if h.FeaturedQ == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "featured rotation is disabled", Kind: "not_found"})
		return
	}
	result, err := h.FeaturedQ.Handle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
