package http

import (
	"log/slog"
	"net/http"
	"time"

	"moneywise/internal/stats"
)

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	period := stats.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = stats.PeriodMonth
	}
	if !period.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "Periodo non valido: usa month o year")
		return
	}

	key := s.statsCacheKey(sess.UserID, period)
	if view, found := s.statsCache.Get(key); found {
		slog.DebugContext(r.Context(), "Statistics cache hit",
			"user", sess.UserID, "period", period)
		respondJSON(w, http.StatusOK, toStatsJSON(view))
		return
	}

	view, err := s.stats.View(r.Context(), sess, period, time.Now())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	s.statsCache.Set(key, view)
	respondJSON(w, http.StatusOK, toStatsJSON(view))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	dashboard, err := s.stats.Dashboard(r.Context(), sess, time.Now())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDashboardJSON(dashboard))
}
