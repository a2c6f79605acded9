package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
)

type createBudgetRequest struct {
	Name        string            `json:"name"`
	Period      core.BudgetPeriod `json:"period"`
	TotalAmount core.Money        `json:"total_amount"`
	StartDate   core.Date         `json:"start_date"`
	EndDate     core.Date         `json:"end_date"`
}

func handleBudgetCreate(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBudgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		b, err := svc.Create(r.Context(), profileID(r.Context()), services.CreateBudgetInput{
			OrganizationID: r.PathValue("orgID"),
			Name:           sanitizeInput(req.Name),
			Period:         req.Period,
			TotalAmount:    req.TotalAmount,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func handleBudgetList(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgets, err := svc.List(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if budgets == nil {
			budgets = []services.BudgetWithAllocations{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
	}
}

func handleBudgetStatus(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

type createAllocationRequest struct {
	CategoryID string     `json:"category_id"`
	Amount     core.Money `json:"allocated_amount"`
}

func handleAllocationCreate(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAllocationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		a, err := svc.Allocate(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"), req.CategoryID, req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func handleAllocationRemove(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.RemoveAllocation(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"), r.PathValue("allocID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
