package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
	"kassan/internal/storage"
)

type createTransactionRequest struct {
	Type        core.TransactionType `json:"type"`
	Amount      core.Money           `json:"amount"`
	Currency    string               `json:"currency"`
	Description string               `json:"description"`
	Notes       string               `json:"notes"`
	Tags        []string             `json:"tags"`
	CategoryID  string               `json:"category_id"`
	TripID      string               `json:"trip_id"`
	ReceiptURL  string               `json:"receipt_url"`
	Date        core.Date            `json:"transaction_date"`
}

func handleTransactionCreate(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTransactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		t, err := svc.Create(r.Context(), profileID(r.Context()), services.CreateTransactionInput{
			OrganizationID: r.PathValue("orgID"),
			Type:           req.Type,
			Amount:         req.Amount,
			Currency:       sanitizeInput(req.Currency),
			Description:    sanitizeInput(req.Description),
			Notes:          sanitizeInput(req.Notes),
			Tags:           req.Tags,
			CategoryID:     req.CategoryID,
			TripID:         req.TripID,
			ReceiptURL:     sanitizeInput(req.ReceiptURL),
			Date:           req.Date,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func handleTransactionList(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := storage.TransactionFilter{
			Type:       core.TransactionType(r.URL.Query().Get("type")),
			CategoryID: r.URL.Query().Get("category_id"),
			TripID:     r.URL.Query().Get("trip_id"),
			Limit:      queryInt(r, "limit"),
			Offset:     queryInt(r, "offset"),
		}
		if filter.Type != "" && !filter.Type.Valid() {
			writeError(w, r, core.Invalid("type", "must be expense, income or transfer"))
			return
		}
		if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
			year, month, err := parseYearMonth(r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			filter.Year = year
			filter.Month = month
		}

		txs, err := svc.List(r.Context(), profileID(r.Context()), r.PathValue("orgID"), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if txs == nil {
			txs = []core.Transaction{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
	}
}

func handleTransactionGet(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Get(r.Context(), profileID(r.Context()), r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func handleTransactionDelete(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), profileID(r.Context()), r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
