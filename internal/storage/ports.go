// Package storage defines the relational store ports and their sqlite,
// postgres and in-memory implementations.
package storage

import (
	"context"
	"time"

	"kassan/internal/core"
)

// TransactionFilter narrows a transaction list query. Zero values mean "no
// constraint". Limit of zero falls back to DefaultListLimit; listing is
// always bounded.
type TransactionFilter struct {
	Type       core.TransactionType
	CategoryID string
	TripID     string
	Year       int
	Month      time.Month
	Limit      int
	Offset     int
}

// DefaultListLimit bounds list queries when the caller does not paginate.
const DefaultListLimit = 100

// MaxListLimit caps client-requested page sizes.
const MaxListLimit = 500

func (f TransactionFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// EffectiveOffset treats negative offsets as zero so client input can never
// produce an invalid window.
func (f TransactionFilter) EffectiveOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

type ProfileStore interface {
	// UpsertProfile creates the profile on first authentication and
	// refreshes mutable attributes afterwards.
	UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error)
	ProfileByID(ctx context.Context, id string) (core.Profile, error)
}

type OrganizationStore interface {
	CreateOrganization(ctx context.Context, o core.Organization) error
	OrganizationByID(ctx context.Context, id string) (core.Organization, error)
	UpdateOrganization(ctx context.Context, o core.Organization) error
}

type MembershipStore interface {
	CreateMembership(ctx context.Context, m core.Membership) error
	MembershipByID(ctx context.Context, id string) (core.Membership, error)
	MembershipByProfileOrg(ctx context.Context, profileID, orgID string) (core.Membership, error)
	MembershipsByProfile(ctx context.Context, profileID string) ([]core.Membership, error)
	MembershipsByOrganization(ctx context.Context, orgID string) ([]core.Membership, error)
	UpdateMembership(ctx context.Context, m core.Membership) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.Category) error
	CategoryByID(ctx context.Context, id string) (core.Category, error)
	// CategoriesForOrganization returns the union of organization-owned
	// categories and shared system defaults, optionally filtered by type.
	CategoriesForOrganization(ctx context.Context, orgID string, typ core.CategoryType) ([]core.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	TransactionByID(ctx context.Context, id string) (core.Transaction, error)
	// ListTransactions returns the organization's transactions ordered by
	// transaction_date descending, creation instant descending on ties,
	// with category name/color joined for display.
	ListTransactions(ctx context.Context, orgID string, f TransactionFilter) ([]core.Transaction, error)
	// DeleteTransaction removes the row permanently. core.ErrNotFound if
	// the id does not exist.
	DeleteTransaction(ctx context.Context, id string) error
	CountTransactionsInMonth(ctx context.Context, orgID string, year int, month time.Month) (int, error)
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b core.Budget) error
	BudgetByID(ctx context.Context, id string) (core.Budget, error)
	BudgetsByOrganization(ctx context.Context, orgID string) ([]core.Budget, error)
	CreateAllocation(ctx context.Context, a core.BudgetAllocation) error
	AllocationsByBudget(ctx context.Context, budgetID string) ([]core.BudgetAllocation, error)
	DeleteAllocation(ctx context.Context, id string) error
}

type TripStore interface {
	CreateTrip(ctx context.Context, t core.Trip) error
	TripByID(ctx context.Context, id string) (core.Trip, error)
	TripsByOrganization(ctx context.Context, orgID string) ([]core.Trip, error)
	UpdateTrip(ctx context.Context, t core.Trip) error
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, s core.Subscription) error
	SubscriptionByOrganization(ctx context.Context, orgID string) (core.Subscription, error)
	UpdateSubscription(ctx context.Context, s core.Subscription) error
}

// Store is the full relational store surface the services depend on.
type Store interface {
	ProfileStore
	OrganizationStore
	MembershipStore
	CategoryStore
	TransactionStore
	BudgetStore
	TripStore
	SubscriptionStore

	Close() error
}
