package services

import (
	"context"
	"fmt"
	"time"

	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

type SubscriptionService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewSubscriptionService(store storage.Store, resolver *auth.Resolver) *SubscriptionService {
	return &SubscriptionService{store: store, resolver: resolver}
}

func (s *SubscriptionService) Get(ctx context.Context, profileID, orgID string) (core.Subscription, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return core.Subscription{}, err
	}
	return s.store.SubscriptionByOrganization(ctx, m.OrganizationID)
}

// ChangeTier switches the billing tier and resets the usage ceilings to the
// tier defaults. Owner only.
func (s *SubscriptionService) ChangeTier(ctx context.Context, profileID, orgID string, tier core.SubscriptionTier) (core.Subscription, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBilling)
	if err != nil {
		return core.Subscription{}, err
	}

	if !tier.Valid() {
		return core.Subscription{}, core.Invalid("tier", "unknown tier")
	}

	sub, err := s.store.SubscriptionByOrganization(ctx, m.OrganizationID)
	if err != nil {
		return core.Subscription{}, err
	}

	sub.Tier = tier
	sub.MaxMembers, sub.MaxTransactionsPerMonth = tierLimits(tier)
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	return sub, nil
}

// Cancel marks the subscription canceled at the current instant. The
// organization keeps operating on the free tier ceilings.
func (s *SubscriptionService) Cancel(ctx context.Context, profileID, orgID string) (core.Subscription, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageBilling)
	if err != nil {
		return core.Subscription{}, err
	}

	sub, err := s.store.SubscriptionByOrganization(ctx, m.OrganizationID)
	if err != nil {
		return core.Subscription{}, err
	}

	now := time.Now().UTC()
	sub.Status = core.SubscriptionCanceled
	sub.CanceledAt = &now
	sub.Tier = core.TierFree
	sub.MaxMembers, sub.MaxTransactionsPerMonth = tierLimits(core.TierFree)
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	return sub, nil
}
