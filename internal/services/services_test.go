package services

import (
	"context"
	"testing"
	"time"

	"kassan/internal/amqp"
	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage/memory"
)

// recordingPublisher captures published transaction events.
type recordingPublisher struct {
	events []*amqp.TransactionEvent
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, e *amqp.TransactionEvent) error {
	p.events = append(p.events, e)
	return nil
}

// env is one in-memory deployment: store, resolver and every service, with a
// seeded organization and one profile per role.
type env struct {
	store    *memory.Store
	resolver *auth.Resolver
	events   *recordingPublisher
	cache    *SummaryCache

	orgs          *OrganizationService
	memberships   *MembershipService
	transactions  *TransactionService
	summaries     *SummaryService
	categories    *CategoryService
	budgets       *BudgetService
	trips         *TripService
	subscriptions *SubscriptionService
	profiles      *ProfileService

	orgID string
}

const (
	ownerID  = "p-owner"
	adminID  = "p-admin"
	memberID = "p-member"
	viewerID = "p-viewer"
)

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	resolver := auth.NewResolver(store)
	events := &recordingPublisher{}
	cache := NewSummaryCache(16, time.Minute)

	e := &env{
		store:         store,
		resolver:      resolver,
		events:        events,
		cache:         cache,
		orgs:          NewOrganizationService(store, resolver),
		memberships:   NewMembershipService(store, resolver),
		transactions:  NewTransactionService(store, resolver, events, cache),
		summaries:     NewSummaryService(store, resolver, cache),
		categories:    NewCategoryService(store, resolver),
		budgets:       NewBudgetService(store, resolver),
		trips:         NewTripService(store, resolver),
		subscriptions: NewSubscriptionService(store, resolver),
		profiles:      NewProfileService(store),
	}

	for _, p := range []struct{ id, email string }{
		{ownerID, "owner@example.com"},
		{adminID, "admin@example.com"},
		{memberID, "member@example.com"},
		{viewerID, "viewer@example.com"},
	} {
		if _, err := store.UpsertProfile(ctx, core.Profile{ID: p.id, Email: p.email}); err != nil {
			t.Fatalf("seed profile %s: %v", p.id, err)
		}
	}

	org, err := e.orgs.Create(ctx, ownerID, CreateOrganizationInput{Name: "Testfamiljen"})
	if err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	e.orgID = org.ID

	e.addActiveMember(t, adminID, core.RoleAdmin)
	e.addActiveMember(t, memberID, core.RoleMember)
	e.addActiveMember(t, viewerID, core.RoleViewer)

	return e
}

func (e *env) addActiveMember(t *testing.T, profileID string, role core.MembershipRole) {
	t.Helper()
	ctx := context.Background()
	m, err := e.memberships.Invite(ctx, ownerID, e.orgID, profileID, role)
	if err != nil {
		t.Fatalf("invite %s: %v", profileID, err)
	}
	if _, err := e.memberships.Accept(ctx, profileID, m.ID); err != nil {
		t.Fatalf("accept %s: %v", profileID, err)
	}
}

func (e *env) createTransaction(t *testing.T, profileID string, in CreateTransactionInput) core.Transaction {
	t.Helper()
	if in.OrganizationID == "" {
		in.OrganizationID = e.orgID
	}
	tx, err := e.transactions.Create(context.Background(), profileID, in)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func (e *env) setSubscriptionLimits(t *testing.T, maxMembers, maxTxPerMonth int) {
	t.Helper()
	ctx := context.Background()
	sub, err := e.store.SubscriptionByOrganization(ctx, e.orgID)
	if err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	sub.MaxMembers = maxMembers
	sub.MaxTransactionsPerMonth = maxTxPerMonth
	if err := e.store.UpdateSubscription(ctx, sub); err != nil {
		t.Fatalf("update subscription: %v", err)
	}
}

func expenseInput(t *testing.T, amount, date string) CreateTransactionInput {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	m, err := core.ParseMoney(amount)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", amount, err)
	}
	return CreateTransactionInput{
		Type:        core.TransactionExpense,
		Amount:      m,
		Description: "test expense",
		Date:        d,
	}
}

// secondOrg provisions a separate organization owned by a fresh profile, for
// tenant isolation tests.
func (e *env) secondOrg(t *testing.T) (orgID, otherOwnerID string) {
	t.Helper()
	ctx := context.Background()
	otherOwnerID = "p-other-owner"
	if _, err := e.store.UpsertProfile(ctx, core.Profile{ID: otherOwnerID, Email: "other@example.com"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	org, err := e.orgs.Create(ctx, otherOwnerID, CreateOrganizationInput{Name: "Grannarna"})
	if err != nil {
		t.Fatalf("seed second organization: %v", err)
	}
	return org.ID, otherOwnerID
}
