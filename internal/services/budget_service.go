package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

type BudgetService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewBudgetService(store storage.Store, resolver *auth.Resolver) *BudgetService {
	return &BudgetService{store: store, resolver: resolver}
}

type CreateBudgetInput struct {
	OrganizationID string
	Name           string
	Period         core.BudgetPeriod
	TotalAmount    core.Money
	StartDate      core.Date
	EndDate        core.Date
}

func (s *BudgetService) Create(ctx context.Context, profileID string, in CreateBudgetInput) (core.Budget, error) {
	m, err := s.resolver.Require(ctx, profileID, in.OrganizationID, auth.CapManageBudgets)
	if err != nil {
		return core.Budget{}, err
	}

	now := time.Now().UTC()
	b := core.Budget{
		ID:             uuid.NewString(),
		OrganizationID: m.OrganizationID,
		Name:           in.Name,
		Period:         in.Period,
		TotalAmount:    in.TotalAmount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		CreatedBy:      profileID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return b, nil
}

// BudgetWithAllocations pairs a budget with its category allocations.
type BudgetWithAllocations struct {
	core.Budget
	Allocations []core.BudgetAllocation `json:"allocations"`
}

func (s *BudgetService) List(ctx context.Context, profileID, orgID string) ([]BudgetWithAllocations, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}

	budgets, err := s.store.BudgetsByOrganization(ctx, m.OrganizationID)
	if err != nil {
		return nil, err
	}

	out := make([]BudgetWithAllocations, 0, len(budgets))
	for _, b := range budgets {
		allocs, err := s.store.AllocationsByBudget(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BudgetWithAllocations{Budget: b, Allocations: allocs})
	}
	return out, nil
}

// Allocate assigns part of the budget total to a category. The allocations of
// a budget must never sum above its total, and a category may appear at most
// once per budget.
func (s *BudgetService) Allocate(ctx context.Context, profileID, orgID, budgetID, categoryID string, amount core.Money) (core.BudgetAllocation, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBudgets)
	if err != nil {
		return core.BudgetAllocation{}, err
	}

	b, err := s.budgetInOrg(ctx, m.OrganizationID, budgetID)
	if err != nil {
		return core.BudgetAllocation{}, err
	}

	if amount.IsNegative() {
		return core.BudgetAllocation{}, core.Invalid("allocated_amount", "must not be negative")
	}

	c, err := s.store.CategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.BudgetAllocation{}, core.Invalid("category_id", "unknown category")
		}
		return core.BudgetAllocation{}, fmt.Errorf("load category: %w", err)
	}
	if !c.IsSystemDefault && c.OrganizationID != m.OrganizationID {
		return core.BudgetAllocation{}, core.Invalid("category_id", "unknown category")
	}

	allocs, err := s.store.AllocationsByBudget(ctx, budgetID)
	if err != nil {
		return core.BudgetAllocation{}, err
	}
	allocated := core.Money{}
	for _, a := range allocs {
		if a.CategoryID == categoryID {
			return core.BudgetAllocation{}, core.Invalid("category_id", "category already allocated in this budget")
		}
		allocated = allocated.Add(a.Amount)
	}
	if allocated.Add(amount).Cmp(b.TotalAmount) > 0 {
		return core.BudgetAllocation{}, core.Invalid("allocated_amount", "allocations exceed the budget total")
	}

	now := time.Now().UTC()
	a := core.BudgetAllocation{
		ID:         uuid.NewString(),
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateAllocation(ctx, a); err != nil {
		return core.BudgetAllocation{}, fmt.Errorf("save allocation: %w", err)
	}
	return a, nil
}

// AllocationStatus pairs one allocation with the amount actually spent in its
// category over the budget window.
type AllocationStatus struct {
	core.BudgetAllocation
	Spent core.Money `json:"spent"`
}

// BudgetStatus is the live view of a budget: allocations with spend, plus the
// total spent across all of the organization's expenses in the window.
type BudgetStatus struct {
	core.Budget
	Allocations []AllocationStatus `json:"allocations"`
	TotalSpent  core.Money         `json:"total_spent"`
}

// Status folds the organization's expenses inside the budget window into
// per-allocation spend.
func (s *BudgetService) Status(ctx context.Context, profileID, orgID, budgetID string) (BudgetStatus, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return BudgetStatus{}, err
	}

	b, err := s.budgetInOrg(ctx, m.OrganizationID, budgetID)
	if err != nil {
		return BudgetStatus{}, err
	}

	allocs, err := s.store.AllocationsByBudget(ctx, budgetID)
	if err != nil {
		return BudgetStatus{}, err
	}

	spentByCategory := make(map[string]core.Money, len(allocs))
	var totalSpent core.Money

	filter := storage.TransactionFilter{
		Type:  core.TransactionExpense,
		Limit: storage.MaxListLimit,
	}
	for {
		page, err := s.store.ListTransactions(ctx, m.OrganizationID, filter)
		if err != nil {
			return BudgetStatus{}, err
		}
		for _, t := range page {
			if t.Date.Before(b.StartDate) || b.EndDate.Before(t.Date) {
				continue
			}
			totalSpent = totalSpent.Add(t.Amount)
			if t.CategoryID != "" {
				spentByCategory[t.CategoryID] = spentByCategory[t.CategoryID].Add(t.Amount)
			}
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	out := BudgetStatus{Budget: b, Allocations: make([]AllocationStatus, 0, len(allocs)), TotalSpent: totalSpent}
	for _, a := range allocs {
		out.Allocations = append(out.Allocations, AllocationStatus{
			BudgetAllocation: a,
			Spent:            spentByCategory[a.CategoryID],
		})
	}
	return out, nil
}

func (s *BudgetService) RemoveAllocation(ctx context.Context, profileID, orgID, budgetID, allocationID string) error {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBudgets)
	if err != nil {
		return err
	}

	if _, err := s.budgetInOrg(ctx, m.OrganizationID, budgetID); err != nil {
		return err
	}

	allocs, err := s.store.AllocationsByBudget(ctx, budgetID)
	if err != nil {
		return err
	}
	for _, a := range allocs {
		if a.ID == allocationID {
			return s.store.DeleteAllocation(ctx, allocationID)
		}
	}
	return fmt.Errorf("remove allocation: %w", core.ErrNotFound)
}

func (s *BudgetService) budgetInOrg(ctx context.Context, orgID, budgetID string) (core.Budget, error) {
	b, err := s.store.BudgetByID(ctx, budgetID)
	if err != nil {
		return core.Budget{}, err
	}
	if b.OrganizationID != orgID {
		return core.Budget{}, fmt.Errorf("get budget: %w", core.ErrNotFound)
	}
	return b, nil
}
