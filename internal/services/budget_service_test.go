package services

import (
	"context"
	"errors"
	"testing"

	"kassan/internal/core"
)

func (e *env) createBudget(t *testing.T, total string) core.Budget {
	t.Helper()
	b, err := e.budgets.Create(context.Background(), adminID, CreateBudgetInput{
		OrganizationID: e.orgID,
		Name:           "Monthly plan",
		Period:         core.BudgetMonthly,
		TotalAmount:    mustParseMoney(t, total),
		StartDate:      core.Date{Year: 2024, Month: 3, Day: 1},
		EndDate:        core.Date{Year: 2024, Month: 3, Day: 31},
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	return b
}

func (e *env) createCategory(t *testing.T, name string, typ core.CategoryType) core.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), adminID, CreateCategoryInput{
		OrganizationID: e.orgID,
		Name:           name,
		Type:           typ,
	})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func mustParseMoney(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestBudgetCreate(t *testing.T) {
	e := newEnv(t)

	b := e.createBudget(t, "1000")
	if b.OrganizationID != e.orgID {
		t.Errorf("OrganizationID = %s, want %s", b.OrganizationID, e.orgID)
	}

	// Members cannot manage budgets.
	_, err := e.budgets.Create(context.Background(), memberID, CreateBudgetInput{
		OrganizationID: e.orgID,
		Name:           "Nope",
		Period:         core.BudgetMonthly,
		TotalAmount:    mustParseMoney(t, "1"),
		StartDate:      core.Date{Year: 2024, Month: 1, Day: 1},
		EndDate:        core.Date{Year: 2024, Month: 1, Day: 31},
	})
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("member creating budget: error = %v, want ErrForbidden", err)
	}
}

func TestBudgetAllocate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.createBudget(t, "1000")
	food := e.createCategory(t, "Groceries", core.CategoryExpense)
	rent := e.createCategory(t, "Housing", core.CategoryExpense)

	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, food.ID, mustParseMoney(t, "400")); err != nil {
		t.Fatalf("first allocation: %v", err)
	}

	// Same category twice in one budget is rejected.
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, food.ID, mustParseMoney(t, "100")); !errors.Is(err, core.ErrValidation) {
		t.Errorf("duplicate category: error = %v, want ErrValidation", err)
	}

	// 400 + 700 would overshoot the 1000 total.
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, rent.ID, mustParseMoney(t, "700")); !errors.Is(err, core.ErrValidation) {
		t.Errorf("overshooting allocation: error = %v, want ErrValidation", err)
	}

	// Exactly filling the total is fine.
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, rent.ID, mustParseMoney(t, "600")); err != nil {
		t.Errorf("filling allocation: %v", err)
	}

	got, err := e.budgets.List(ctx, viewerID, e.orgID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || len(got[0].Allocations) != 2 {
		t.Errorf("List = %d budgets / %d allocations, want 1/2", len(got), len(got[0].Allocations))
	}
}

func TestBudgetAllocateUnknownCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.createBudget(t, "1000")

	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, "cat-ghost", mustParseMoney(t, "10")); !errors.Is(err, core.ErrValidation) {
		t.Errorf("unknown category: error = %v, want ErrValidation", err)
	}

	otherOrgID, otherOwnerID := e.secondOrg(t)
	foreign, err := e.categories.Create(ctx, otherOwnerID, CreateCategoryInput{
		OrganizationID: otherOrgID,
		Name:           "Their rent",
		Type:           core.CategoryExpense,
	})
	if err != nil {
		t.Fatalf("create foreign category: %v", err)
	}
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, foreign.ID, mustParseMoney(t, "10")); !errors.Is(err, core.ErrValidation) {
		t.Errorf("foreign category: error = %v, want ErrValidation", err)
	}
}

func TestBudgetRemoveAllocation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.createBudget(t, "1000")
	food := e.createCategory(t, "Groceries", core.CategoryExpense)
	a, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, food.ID, mustParseMoney(t, "400"))
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	if err := e.budgets.RemoveAllocation(ctx, adminID, e.orgID, b.ID, a.ID); err != nil {
		t.Fatalf("RemoveAllocation: %v", err)
	}
	if err := e.budgets.RemoveAllocation(ctx, adminID, e.orgID, b.ID, a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second removal: error = %v, want ErrNotFound", err)
	}

	// Removal frees the headroom again.
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, food.ID, mustParseMoney(t, "1000")); err != nil {
		t.Errorf("re-allocate after removal: %v", err)
	}
}

func TestBudgetStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b := e.createBudget(t, "1000")
	food := e.createCategory(t, "Groceries", core.CategoryExpense)
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, b.ID, food.ID, mustParseMoney(t, "400")); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	in := expenseInput(t, "150.00", "2024-03-05")
	in.CategoryID = food.ID
	e.createTransaction(t, memberID, in)
	in = expenseInput(t, "60.00", "2024-03-20")
	in.CategoryID = food.ID
	e.createTransaction(t, memberID, in)
	// Uncategorized spend counts toward the total only.
	e.createTransaction(t, memberID, expenseInput(t, "40.00", "2024-03-25"))
	// Outside the budget window.
	in = expenseInput(t, "500.00", "2024-04-02")
	in.CategoryID = food.ID
	e.createTransaction(t, memberID, in)

	status, err := e.budgets.Status(ctx, viewerID, e.orgID, b.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.TotalSpent.String() != "250.00" {
		t.Errorf("TotalSpent = %s, want 250.00", status.TotalSpent)
	}
	if len(status.Allocations) != 1 {
		t.Fatalf("allocations = %d, want 1", len(status.Allocations))
	}
	if got := status.Allocations[0].Spent.String(); got != "210.00" {
		t.Errorf("category spend = %s, want 210.00", got)
	}
}

func TestBudgetCrossOrgReadsAsMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherOrgID, otherOwnerID := e.secondOrg(t)

	theirs, err := e.budgets.Create(ctx, otherOwnerID, CreateBudgetInput{
		OrganizationID: otherOrgID,
		Name:           "Their plan",
		Period:         core.BudgetMonthly,
		TotalAmount:    mustParseMoney(t, "500"),
		StartDate:      core.Date{Year: 2024, Month: 3, Day: 1},
		EndDate:        core.Date{Year: 2024, Month: 3, Day: 31},
	})
	if err != nil {
		t.Fatalf("create in second org: %v", err)
	}

	food := e.createCategory(t, "Groceries", core.CategoryExpense)
	if _, err := e.budgets.Allocate(ctx, adminID, e.orgID, theirs.ID, food.ID, mustParseMoney(t, "10")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("allocating into a foreign budget: error = %v, want ErrNotFound", err)
	}
}
