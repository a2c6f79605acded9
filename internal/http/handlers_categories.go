package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
)

func handleCategoryList(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := core.CategoryType(r.URL.Query().Get("type"))
		categories, err := svc.List(r.Context(), profileID(r.Context()), r.PathValue("orgID"), typ)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if categories == nil {
			categories = []core.Category{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
	}
}

type createCategoryRequest struct {
	Name     string            `json:"name"`
	Type     core.CategoryType `json:"type"`
	Color    string            `json:"color"`
	Icon     string            `json:"icon"`
	ParentID string            `json:"parent_category_id"`
}

func handleCategoryCreate(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		c, err := svc.Create(r.Context(), profileID(r.Context()), services.CreateCategoryInput{
			OrganizationID: r.PathValue("orgID"),
			Name:           sanitizeInput(req.Name),
			Type:           req.Type,
			Color:          sanitizeInput(req.Color),
			Icon:           sanitizeInput(req.Icon),
			ParentID:       req.ParentID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleCategoryDelete(svc *services.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), profileID(r.Context()), r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
