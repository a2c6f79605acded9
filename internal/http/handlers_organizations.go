package http

import (
	"net/http"

	"kassan/internal/core"
	"kassan/internal/services"
)

func handleProfileGet(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), profileID(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type updateProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Locale    string `json:"locale"`
	Timezone  string `json:"timezone"`
}

func handleProfileUpdate(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		p, err := svc.Update(r.Context(), core.Profile{
			ID:        profileID(r.Context()),
			FullName:  sanitizeInput(req.FullName),
			AvatarURL: sanitizeInput(req.AvatarURL),
			Locale:    sanitizeInput(req.Locale),
			Timezone:  sanitizeInput(req.Timezone),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type createOrganizationRequest struct {
	Name                 string                `json:"name"`
	Type                 core.OrganizationType `json:"type"`
	Currency             string                `json:"currency"`
	FiscalYearStartMonth int                   `json:"fiscal_year_start_month"`
}

func handleOrganizationCreate(svc *services.OrganizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrganizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		org, err := svc.Create(r.Context(), profileID(r.Context()), services.CreateOrganizationInput{
			Name:                 sanitizeInput(req.Name),
			Type:                 req.Type,
			Currency:             sanitizeInput(req.Currency),
			FiscalYearStartMonth: req.FiscalYearStartMonth,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, org)
	}
}

func handleOrganizationList(svc *services.OrganizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgs, err := svc.ListForProfile(r.Context(), profileID(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if orgs == nil {
			orgs = []core.Organization{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
	}
}

func handleOrganizationGet(svc *services.OrganizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, err := svc.Get(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, org)
	}
}

type updateOrganizationRequest struct {
	Name                 string `json:"name"`
	Currency             string `json:"currency"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month"`
	VATNumber            string `json:"vat_number"`
	BusinessRegNumber    string `json:"business_registration_number"`
}

func handleOrganizationUpdate(svc *services.OrganizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOrganizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		org, err := svc.Update(r.Context(), profileID(r.Context()), r.PathValue("orgID"), services.UpdateOrganizationInput{
			Name:                 sanitizeInput(req.Name),
			Currency:             sanitizeInput(req.Currency),
			FiscalYearStartMonth: req.FiscalYearStartMonth,
			VATNumber:            sanitizeInput(req.VATNumber),
			BusinessRegNumber:    sanitizeInput(req.BusinessRegNumber),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, org)
	}
}

func handleOrganizationDelete(svc *services.OrganizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleMembershipList(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := svc.List(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if members == nil {
			members = []core.Membership{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"members": members})
	}
}

type inviteMemberRequest struct {
	ProfileID string              `json:"user_id"`
	Role      core.MembershipRole `json:"role"`
}

func handleMembershipInvite(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inviteMemberRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		m, err := svc.Invite(r.Context(), profileID(r.Context()), r.PathValue("orgID"), req.ProfileID, req.Role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func handleMembershipAccept(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Accept(r.Context(), profileID(r.Context()), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

type changeRoleRequest struct {
	Role core.MembershipRole `json:"role"`
}

func handleMembershipChangeRole(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeRoleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		m, err := svc.ChangeRole(r.Context(), profileID(r.Context()),
			r.PathValue("orgID"), r.PathValue("id"), req.Role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleMembershipRemove(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Remove(r.Context(), profileID(r.Context()), r.PathValue("orgID"), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSubscriptionGet(svc *services.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := svc.Get(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

type changeTierRequest struct {
	Tier core.SubscriptionTier `json:"tier"`
}

func handleSubscriptionChangeTier(svc *services.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeTierRequest
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}

		sub, err := svc.ChangeTier(r.Context(), profileID(r.Context()), r.PathValue("orgID"), req.Tier)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func handleSubscriptionCancel(svc *services.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := svc.Cancel(r.Context(), profileID(r.Context()), r.PathValue("orgID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}
