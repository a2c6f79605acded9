package services

import (
	"context"
	"errors"
	"testing"

	"kassan/internal/core"
)

func TestOrganizationCreateProvisions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	org, err := e.store.OrganizationByID(ctx, e.orgID)
	if err != nil {
		t.Fatalf("load organization: %v", err)
	}
	if org.Type != core.OrganizationHousehold || org.Currency != "SEK" || org.FiscalYearStartMonth != 1 {
		t.Errorf("defaults = %+v", org)
	}

	m, err := e.store.MembershipByProfileOrg(ctx, ownerID, e.orgID)
	if err != nil {
		t.Fatalf("load owner membership: %v", err)
	}
	if m.Role != core.RoleOwner || m.Status != core.MembershipActive {
		t.Errorf("creator membership = %+v", m)
	}

	sub, err := e.subscriptions.Get(ctx, ownerID, e.orgID)
	if err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	if sub.Tier != core.TierFree || sub.MaxMembers != 5 || sub.MaxTransactionsPerMonth != 1000 {
		t.Errorf("free subscription = %+v", sub)
	}
}

func TestOrganizationUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	got, err := e.orgs.Update(ctx, ownerID, e.orgID, UpdateOrganizationInput{
		Name:     "Nya hemmet",
		Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Nya hemmet" || got.Currency != "EUR" {
		t.Errorf("updated = %+v", got)
	}
	if got.FiscalYearStartMonth != 1 {
		t.Errorf("untouched field changed: %d", got.FiscalYearStartMonth)
	}

	// Admins cannot change organization settings.
	if _, err := e.orgs.Update(ctx, adminID, e.orgID, UpdateOrganizationInput{Name: "X"}); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("admin update: error = %v, want ErrForbidden", err)
	}

	if _, err := e.orgs.Update(ctx, ownerID, e.orgID, UpdateOrganizationInput{FiscalYearStartMonth: 13}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad fiscal month: error = %v, want ErrValidation", err)
	}
}

func TestOrganizationListForProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.secondOrg(t)

	orgs, err := e.orgs.ListForProfile(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListForProfile: %v", err)
	}
	if len(orgs) != 1 || orgs[0].ID != e.orgID {
		t.Errorf("ListForProfile = %+v, want only the own organization", orgs)
	}
}

func TestOrganizationSoftDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Admins cannot delete the organization.
	if err := e.orgs.Delete(ctx, adminID, e.orgID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("admin delete: error = %v, want ErrForbidden", err)
	}

	if err := e.orgs.Delete(ctx, ownerID, e.orgID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	org, err := e.store.OrganizationByID(ctx, e.orgID)
	if err != nil {
		t.Fatalf("load organization: %v", err)
	}
	if org.Status != core.OrganizationDeleted || org.DeletedAt == nil {
		t.Errorf("organization after delete = %+v", org)
	}

	// Data stays but every membership stops resolving.
	if _, err := e.resolver.Resolve(ctx, ownerID, e.orgID); !errors.Is(err, core.ErrNotAMember) {
		t.Errorf("resolve after delete: error = %v, want ErrNotAMember", err)
	}
	if orgs, err := e.orgs.ListForProfile(ctx, ownerID); err != nil || len(orgs) != 0 {
		t.Errorf("ListForProfile after delete = %v, %v", orgs, err)
	}
}
