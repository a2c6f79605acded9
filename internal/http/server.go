// Package http exposes the JSON API. Identity arrives as trusted reverse
// proxy headers; all organization-scoped routes re-resolve membership in the
// service layer.
package http

import (
	"context"
	"net/http"
	"time"

	"kassan/internal/config"
	"kassan/internal/log"
	"kassan/internal/services"
)

// Services bundles the orchestration layer the handlers call into.
type Services struct {
	Profiles      *services.ProfileService
	Organizations *services.OrganizationService
	Memberships   *services.MembershipService
	Transactions  *services.TransactionService
	Summaries     *services.SummaryService
	Categories    *services.CategoryService
	Budgets       *services.BudgetService
	Trips         *services.TripService
	Subscriptions *services.SubscriptionService
}

type Server struct {
	http.Server
	limiter *rateLimiter
	logger  *log.Logger
}

func NewServer(cfg *config.Config, svc Services, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		limiter: newRateLimiter(cfg.RateLimitPerMinute),
		logger:  logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", s.apiRoutes(svc)))

	handler := securityHeaders(
		s.limiter.middleware(
			log.Middleware(logger)(
				traceMiddleware(
					log.AccessLog(logger)(mux)))))

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           http.TimeoutHandler(handler, cfg.RequestTimeout, `{"error":"request timed out"}`),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) apiRoutes(svc Services) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /profile", handleProfileGet(svc.Profiles))
	mux.HandleFunc("PUT /profile", handleProfileUpdate(svc.Profiles))

	mux.HandleFunc("POST /organizations", handleOrganizationCreate(svc.Organizations))
	mux.HandleFunc("GET /organizations", handleOrganizationList(svc.Organizations))
	mux.HandleFunc("GET /organizations/{orgID}", handleOrganizationGet(svc.Organizations))
	mux.HandleFunc("PUT /organizations/{orgID}", handleOrganizationUpdate(svc.Organizations))
	mux.HandleFunc("DELETE /organizations/{orgID}", handleOrganizationDelete(svc.Organizations))

	mux.HandleFunc("GET /organizations/{orgID}/members", handleMembershipList(svc.Memberships))
	mux.HandleFunc("POST /organizations/{orgID}/members", handleMembershipInvite(svc.Memberships))
	mux.HandleFunc("PATCH /organizations/{orgID}/members/{id}", handleMembershipChangeRole(svc.Memberships))
	mux.HandleFunc("DELETE /organizations/{orgID}/members/{id}", handleMembershipRemove(svc.Memberships))
	mux.HandleFunc("POST /memberships/{id}/accept", handleMembershipAccept(svc.Memberships))

	mux.HandleFunc("POST /organizations/{orgID}/transactions", handleTransactionCreate(svc.Transactions))
	mux.HandleFunc("GET /organizations/{orgID}/transactions", handleTransactionList(svc.Transactions))
	mux.HandleFunc("GET /organizations/{orgID}/transactions/{id}", handleTransactionGet(svc.Transactions))
	mux.HandleFunc("DELETE /organizations/{orgID}/transactions/{id}", handleTransactionDelete(svc.Transactions))

	mux.HandleFunc("GET /organizations/{orgID}/summary", handleSummary(svc.Summaries))
	mux.HandleFunc("GET /organizations/{orgID}/summary/breakdown", handleBreakdown(svc.Summaries))

	mux.HandleFunc("GET /organizations/{orgID}/categories", handleCategoryList(svc.Categories))
	mux.HandleFunc("POST /organizations/{orgID}/categories", handleCategoryCreate(svc.Categories))
	mux.HandleFunc("DELETE /organizations/{orgID}/categories/{id}", handleCategoryDelete(svc.Categories))

	mux.HandleFunc("GET /organizations/{orgID}/budgets", handleBudgetList(svc.Budgets))
	mux.HandleFunc("POST /organizations/{orgID}/budgets", handleBudgetCreate(svc.Budgets))
	mux.HandleFunc("GET /organizations/{orgID}/budgets/{id}/status", handleBudgetStatus(svc.Budgets))
	mux.HandleFunc("POST /organizations/{orgID}/budgets/{id}/allocations", handleAllocationCreate(svc.Budgets))
	mux.HandleFunc("DELETE /organizations/{orgID}/budgets/{id}/allocations/{allocID}", handleAllocationRemove(svc.Budgets))

	mux.HandleFunc("GET /organizations/{orgID}/trips", handleTripList(svc.Trips))
	mux.HandleFunc("POST /organizations/{orgID}/trips", handleTripCreate(svc.Trips))
	mux.HandleFunc("GET /organizations/{orgID}/trips/{id}", handleTripGet(svc.Trips))
	mux.HandleFunc("POST /organizations/{orgID}/trips/{id}/status", handleTripStatus(svc.Trips))

	mux.HandleFunc("GET /organizations/{orgID}/subscription", handleSubscriptionGet(svc.Subscriptions))
	mux.HandleFunc("PUT /organizations/{orgID}/subscription", handleSubscriptionChangeTier(svc.Subscriptions))
	mux.HandleFunc("DELETE /organizations/{orgID}/subscription", handleSubscriptionCancel(svc.Subscriptions))

	return identityMiddleware(svc.Profiles)(mux)
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}
