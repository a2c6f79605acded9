// Package memory holds an in-memory Store used for development and tests.
// It mirrors the ordering and not-found semantics of the sql backends.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kassan/internal/core"
	"kassan/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	profiles      map[string]core.Profile
	organizations map[string]core.Organization
	memberships   map[string]core.Membership
	categories    map[string]core.Category
	transactions  map[string]core.Transaction
	budgets       map[string]core.Budget
	allocations   map[string]core.BudgetAllocation
	trips         map[string]core.Trip
	subscriptions map[string]core.Subscription
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		profiles:      make(map[string]core.Profile),
		organizations: make(map[string]core.Organization),
		memberships:   make(map[string]core.Membership),
		categories:    make(map[string]core.Category),
		transactions:  make(map[string]core.Transaction),
		budgets:       make(map[string]core.Budget),
		allocations:   make(map[string]core.BudgetAllocation),
		trips:         make(map[string]core.Trip),
		subscriptions: make(map[string]core.Subscription),
	}
}

func (s *Store) Close() error { return nil }

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

// ---- profiles ----

func (s *Store) UpsertProfile(_ context.Context, p core.Profile) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
	return p, nil
}

func (s *Store) ProfileByID(_ context.Context, id string) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return core.Profile{}, notFound("get profile")
	}
	return p, nil
}

// ---- organizations ----

func (s *Store) CreateOrganization(_ context.Context, o core.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[o.ID] = o
	return nil
}

func (s *Store) OrganizationByID(_ context.Context, id string) (core.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.organizations[id]
	if !ok {
		return core.Organization{}, notFound("get organization")
	}
	return o, nil
}

func (s *Store) UpdateOrganization(_ context.Context, o core.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[o.ID]; !ok {
		return notFound("update organization")
	}
	o.UpdatedAt = time.Now().UTC()
	s.organizations[o.ID] = o
	return nil
}

// ---- memberships ----

func (s *Store) CreateMembership(_ context.Context, m core.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.ID] = m
	return nil
}

func (s *Store) MembershipByID(_ context.Context, id string) (core.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[id]
	if !ok {
		return core.Membership{}, notFound("get membership")
	}
	return m, nil
}

func (s *Store) MembershipByProfileOrg(_ context.Context, profileID, orgID string) (core.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships {
		if m.ProfileID == profileID && m.OrganizationID == orgID {
			return m, nil
		}
	}
	return core.Membership{}, notFound("get membership")
}

func (s *Store) MembershipsByProfile(_ context.Context, profileID string) ([]core.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectMemberships(func(m core.Membership) bool { return m.ProfileID == profileID }), nil
}

func (s *Store) MembershipsByOrganization(_ context.Context, orgID string) ([]core.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectMemberships(func(m core.Membership) bool { return m.OrganizationID == orgID }), nil
}

func (s *Store) collectMemberships(keep func(core.Membership) bool) []core.Membership {
	var out []core.Membership
	for _, m := range s.memberships {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) UpdateMembership(_ context.Context, m core.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memberships[m.ID]; !ok {
		return notFound("update membership")
	}
	m.UpdatedAt = time.Now().UTC()
	s.memberships[m.ID] = m
	return nil
}

// ---- categories ----

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return nil
}

func (s *Store) CategoryByID(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, notFound("get category")
	}
	return c, nil
}

func (s *Store) CategoriesForOrganization(_ context.Context, orgID string, typ core.CategoryType) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Category
	for _, c := range s.categories {
		if c.OrganizationID != orgID && !c.IsSystemDefault {
			continue
		}
		if typ != "" && c.Type != typ {
			continue
		}
		out = append(out, c)
	}
	// Organization-owned first, then system defaults, each alphabetical.
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsSystemDefault != out[j].IsSystemDefault {
			return !out[i].IsSystemDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return notFound("delete category")
	}
	delete(s.categories, id)
	return nil
}

// ---- transactions ----

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Category = nil
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) withCategoryRef(t core.Transaction) core.Transaction {
	if t.CategoryID == "" {
		return t
	}
	if c, ok := s.categories[t.CategoryID]; ok {
		t.Category = &core.CategoryRef{Name: c.Name, Color: c.Color}
	}
	return t
}

func (s *Store) TransactionByID(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, notFound("get transaction")
	}
	return s.withCategoryRef(t), nil
}

func (s *Store) ListTransactions(_ context.Context, orgID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.OrganizationID != orgID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if f.TripID != "" && t.TripID != f.TripID {
			continue
		}
		if f.Year != 0 && f.Month != 0 && !t.Date.InMonth(f.Year, f.Month) {
			continue
		}
		out = append(out, s.withCategoryRef(t))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return b.Date.Before(a.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	limit := f.EffectiveLimit()
	offset := f.EffectiveOffset()
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return notFound("delete transaction")
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) CountTransactionsInMonth(_ context.Context, orgID string, year int, month time.Month) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.transactions {
		if t.OrganizationID == orgID && t.Date.InMonth(year, month) {
			n++
		}
	}
	return n, nil
}

// ---- budgets ----

func (s *Store) CreateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return nil
}

func (s *Store) BudgetByID(_ context.Context, id string) (core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, notFound("get budget")
	}
	return b, nil
}

func (s *Store) BudgetsByOrganization(_ context.Context, orgID string) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.OrganizationID == orgID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StartDate != b.StartDate {
			return b.StartDate.Before(a.StartDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateAllocation(_ context.Context, a core.BudgetAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations[a.ID] = a
	return nil
}

func (s *Store) AllocationsByBudget(_ context.Context, budgetID string) ([]core.BudgetAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.BudgetAllocation
	for _, a := range s.allocations {
		if a.BudgetID == budgetID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteAllocation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.allocations[id]; !ok {
		return notFound("delete allocation")
	}
	delete(s.allocations, id)
	return nil
}

// ---- trips ----

func (s *Store) CreateTrip(_ context.Context, t core.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[t.ID] = t
	return nil
}

func (s *Store) TripByID(_ context.Context, id string) (core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trips[id]
	if !ok {
		return core.Trip{}, notFound("get trip")
	}
	return t, nil
}

func (s *Store) TripsByOrganization(_ context.Context, orgID string) ([]core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Trip
	for _, t := range s.trips {
		if t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateTrip(_ context.Context, t core.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trips[t.ID]; !ok {
		return notFound("update trip")
	}
	t.UpdatedAt = time.Now().UTC()
	s.trips[t.ID] = t
	return nil
}

// ---- subscriptions ----

func (s *Store) CreateSubscription(_ context.Context, sub core.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.ID] = sub
	return nil
}

func (s *Store) SubscriptionByOrganization(_ context.Context, orgID string) (core.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subscriptions {
		if sub.OrganizationID == orgID {
			return sub, nil
		}
	}
	return core.Subscription{}, notFound("get subscription")
}

func (s *Store) UpdateSubscription(_ context.Context, sub core.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[sub.ID]; !ok {
		return notFound("update subscription")
	}
	sub.UpdatedAt = time.Now().UTC()
	s.subscriptions[sub.ID] = sub
	return nil
}
