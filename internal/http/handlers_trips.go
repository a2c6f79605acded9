package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
)

type createTripRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Destination  string     `json:"destination"`
	BudgetAmount core.Money `json:"budget_amount"`
	StartDate    core.Date  `json:"start_date"`
	EndDate      core.Date  `json:"end_date"`
}

func handleTripCreate(svc *services.TripService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTripRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		t, err := svc.Create(r.Context(), profileID(r.Context()), services.CreateTripInput{
			OrganizationID: r.PathValue("orgID"),
			Name:           sanitizeInput(req.Name),
			Description:    sanitizeInput(req.Description),
			Destination:    sanitizeInput(req.Destination),
			BudgetAmount:   req.BudgetAmount,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func handleTripList(svc *services.TripService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trips, err := svc.List(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if trips == nil {
			trips = []core.Trip{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"trips": trips})
	}
}

func handleTripGet(svc *services.TripService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Get(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

type tripStatusRequest struct {
	Status core.TripStatus `json:"status"`
}

func handleTripStatus(svc *services.TripService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tripStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		t, err := svc.ChangeStatus(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"), req.Status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}
