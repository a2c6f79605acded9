package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
)

func handleSummary(svc *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, month, err := parseYearMonth(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		summary, err := svc.Monthly(r.Context(), profileID(r.Context()), r.PathValue("orgID"), year, month)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func handleBreakdown(svc *services.SummaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, month, err := parseYearMonth(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		breakdown, err := svc.Breakdown(r.Context(), profileID(r.Context()), r.PathValue("orgID"), year, month)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if breakdown == nil {
			breakdown = []core.CategoryAmount{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": breakdown})
	}
}
