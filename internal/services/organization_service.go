package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

type OrganizationService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewOrganizationService(store storage.Store, resolver *auth.Resolver) *OrganizationService {
	return &OrganizationService{store: store, resolver: resolver}
}

type CreateOrganizationInput struct {
	Name                 string
	Type                 core.OrganizationType
	Currency             string
	FiscalYearStartMonth int
}

// tierLimits returns the member and monthly transaction ceilings for a tier.
// Zero means unlimited.
func tierLimits(tier core.SubscriptionTier) (maxMembers, maxTransactions int) {
	switch tier {
	case core.TierFree:
		return 5, 1000
	case core.TierPremium:
		return 10, 0
	case core.TierFamily:
		return 8, 0
	default:
		return 0, 0
	}
}

// Create provisions an organization with the creator as active owner and a
// free subscription.
func (s *OrganizationService) Create(ctx context.Context, profileID string, in CreateOrganizationInput) (core.Organization, error) {
	if profileID == "" {
		return core.Organization{}, core.ErrNotAMember
	}
	if strings.TrimSpace(in.Name) == "" {
		return core.Organization{}, core.Invalid("name", "empty")
	}
	if in.Type == "" {
		in.Type = core.OrganizationHousehold
	}
	if !in.Type.Valid() {
		return core.Organization{}, core.Invalid("type", "must be household or business")
	}
	if in.Currency == "" {
		in.Currency = "SEK"
	}
	if in.FiscalYearStartMonth == 0 {
		in.FiscalYearStartMonth = 1
	}
	if in.FiscalYearStartMonth < 1 || in.FiscalYearStartMonth > 12 {
		return core.Organization{}, core.Invalid("fiscal_year_start_month", "must be between 1 and 12")
	}

	now := time.Now().UTC()
	org := core.Organization{
		ID:                   uuid.NewString(),
		Name:                 strings.TrimSpace(in.Name),
		Type:                 in.Type,
		Status:               core.OrganizationActive,
		Currency:             in.Currency,
		FiscalYearStartMonth: in.FiscalYearStartMonth,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		return core.Organization{}, fmt.Errorf("save organization: %w", err)
	}

	owner := core.Membership{
		ID:             uuid.NewString(),
		OrganizationID: org.ID,
		ProfileID:      profileID,
		Role:           core.RoleOwner,
		Status:         core.MembershipActive,
		AcceptedAt:     &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateMembership(ctx, owner); err != nil {
		return core.Organization{}, fmt.Errorf("save owner membership: %w", err)
	}

	maxMembers, maxTransactions := tierLimits(core.TierFree)
	sub := core.Subscription{
		ID:                      uuid.NewString(),
		OrganizationID:          org.ID,
		Tier:                    core.TierFree,
		Status:                  core.SubscriptionActive,
		MaxMembers:              maxMembers,
		MaxTransactionsPerMonth: maxTransactions,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return core.Organization{}, fmt.Errorf("save subscription: %w", err)
	}

	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, profileID, orgID string) (core.Organization, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return core.Organization{}, err
	}
	return s.store.OrganizationByID(ctx, m.OrganizationID)
}

// ListForProfile returns the active organizations the profile belongs to.
func (s *OrganizationService) ListForProfile(ctx context.Context, profileID string) ([]core.Organization, error) {
	memberships, err := s.store.MembershipsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var out []core.Organization
	for _, m := range memberships {
		if m.Status != core.MembershipActive {
			continue
		}
		org, err := s.store.OrganizationByID(ctx, m.OrganizationID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if org.Status != core.OrganizationActive {
			continue
		}
		out = append(out, org)
	}
	return out, nil
}

type UpdateOrganizationInput struct {
	Name                 string
	Currency             string
	FiscalYearStartMonth int
	VATNumber            string
	BusinessRegNumber    string
}

// Update changes the organization's settings. Owner only. Zero-valued fields
// are left untouched.
func (s *OrganizationService) Update(ctx context.Context, profileID, orgID string, in UpdateOrganizationInput) (core.Organization, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBilling)
	if err != nil {
		return core.Organization{}, err
	}

	org, err := s.store.OrganizationByID(ctx, m.OrganizationID)
	if err != nil {
		return core.Organization{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		org.Name = name
	}
	if in.Currency != "" {
		org.Currency = in.Currency
	}
	if in.FiscalYearStartMonth != 0 {
		if in.FiscalYearStartMonth < 1 || in.FiscalYearStartMonth > 12 {
			return core.Organization{}, core.Invalid("fiscal_year_start_month", "must be between 1 and 12")
		}
		org.FiscalYearStartMonth = in.FiscalYearStartMonth
	}
	if in.VATNumber != "" {
		org.VATNumber = in.VATNumber
	}
	if in.BusinessRegNumber != "" {
		org.BusinessRegNumber = in.BusinessRegNumber
	}

	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return core.Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// Delete soft-deletes the organization. Owner only; data stays in place but
// every membership stops resolving.
func (s *OrganizationService) Delete(ctx context.Context, profileID, orgID string) error {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBilling)
	if err != nil {
		return err
	}

	org, err := s.store.OrganizationByID(ctx, m.OrganizationID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	org.Status = core.OrganizationDeleted
	org.DeletedAt = &now
	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}
