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

type MembershipService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewMembershipService(store storage.Store, resolver *auth.Resolver) *MembershipService {
	return &MembershipService{store: store, resolver: resolver}
}

func (s *MembershipService) List(ctx context.Context, profileID, orgID string) ([]core.Membership, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}
	return s.store.MembershipsByOrganization(ctx, m.OrganizationID)
}

// Invite creates an invited membership for an existing profile. Only owners
// may grant the owner role. The subscription's member ceiling counts active
// and pending invitations together.
func (s *MembershipService) Invite(ctx context.Context, inviterID, orgID, profileID string, role core.MembershipRole) (core.Membership, error) {
	inviter, err := s.resolver.Require(ctx, inviterID, orgID, auth.CapManageMembers)
	if err != nil {
		return core.Membership{}, err
	}

	if !role.Valid() {
		return core.Membership{}, core.Invalid("role", "unknown role")
	}
	if role == core.RoleOwner && inviter.Role != core.RoleOwner {
		return core.Membership{}, core.ErrForbidden
	}

	if _, err := s.store.ProfileByID(ctx, profileID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Membership{}, core.Invalid("user_id", "unknown profile")
		}
		return core.Membership{}, fmt.Errorf("load profile: %w", err)
	}

	existing, err := s.store.MembershipByProfileOrg(ctx, profileID, orgID)
	switch {
	case err == nil:
		if existing.Status == core.MembershipInactive {
			// Re-invite a removed member through the same row.
			existing.Role = role
			existing.Status = core.MembershipInvited
			existing.AcceptedAt = nil
			if err := s.store.UpdateMembership(ctx, existing); err != nil {
				return core.Membership{}, fmt.Errorf("update membership: %w", err)
			}
			return existing, nil
		}
		return core.Membership{}, core.Invalid("user_id", "already a member")
	case !errors.Is(err, core.ErrNotFound):
		return core.Membership{}, fmt.Errorf("load membership: %w", err)
	}

	if err := s.checkMemberQuota(ctx, orgID); err != nil {
		return core.Membership{}, err
	}

	now := time.Now().UTC()
	m := core.Membership{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		ProfileID:      profileID,
		Role:           role,
		Status:         core.MembershipInvited,
		InvitedBy:      inviterID,
		InvitedAt:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateMembership(ctx, m); err != nil {
		return core.Membership{}, fmt.Errorf("save membership: %w", err)
	}
	return m, nil
}

func (s *MembershipService) checkMemberQuota(ctx context.Context, orgID string) error {
	sub, err := s.store.SubscriptionByOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub.MaxMembers <= 0 {
		return nil
	}

	members, err := s.store.MembershipsByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	count := 0
	for _, m := range members {
		if m.Status == core.MembershipActive || m.Status == core.MembershipInvited {
			count++
		}
	}
	if count >= sub.MaxMembers {
		return fmt.Errorf("member limit %d reached: %w", sub.MaxMembers, core.ErrQuotaExceeded)
	}
	return nil
}

// Accept turns the caller's own invited membership active. Accepting someone
// else's invitation reads as missing.
func (s *MembershipService) Accept(ctx context.Context, profileID, membershipID string) (core.Membership, error) {
	m, err := s.store.MembershipByID(ctx, membershipID)
	if err != nil {
		return core.Membership{}, err
	}
	if m.ProfileID != profileID {
		return core.Membership{}, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if m.Status != core.MembershipInvited {
		return core.Membership{}, core.Invalid("status", "membership is not pending")
	}

	now := time.Now().UTC()
	m.Status = core.MembershipActive
	m.AcceptedAt = &now
	if err := s.store.UpdateMembership(ctx, m); err != nil {
		return core.Membership{}, fmt.Errorf("update membership: %w", err)
	}
	return m, nil
}

// ChangeRole updates a membership's role. The organization must always keep
// at least one active owner, and only owners may grant or revoke ownership.
func (s *MembershipService) ChangeRole(ctx context.Context, actorID, orgID, membershipID string, role core.MembershipRole) (core.Membership, error) {
	actor, err := s.resolver.Require(ctx, actorID, orgID, auth.CapManageMembers)
	if err != nil {
		return core.Membership{}, err
	}

	if !role.Valid() {
		return core.Membership{}, core.Invalid("role", "unknown role")
	}

	m, err := s.membershipInOrg(ctx, orgID, membershipID)
	if err != nil {
		return core.Membership{}, err
	}

	if (role == core.RoleOwner || m.Role == core.RoleOwner) && actor.Role != core.RoleOwner {
		return core.Membership{}, core.ErrForbidden
	}

	if m.Role == core.RoleOwner && role != core.RoleOwner {
		if err := s.ensureAnotherOwner(ctx, orgID, m.ID); err != nil {
			return core.Membership{}, err
		}
	}

	m.Role = role
	if err := s.store.UpdateMembership(ctx, m); err != nil {
		return core.Membership{}, fmt.Errorf("update membership: %w", err)
	}
	return m, nil
}

// Remove marks a membership inactive. Members may remove themselves; removing
// others requires manage-members. The last active owner cannot leave.
func (s *MembershipService) Remove(ctx context.Context, actorID, orgID, membershipID string) error {
	m, err := s.membershipInOrg(ctx, orgID, membershipID)
	if err != nil {
		return err
	}

	if m.ProfileID != actorID {
		actor, err := s.resolver.Require(ctx, actorID, orgID, auth.CapManageMembers)
		if err != nil {
			return err
		}
		if m.Role == core.RoleOwner && actor.Role != core.RoleOwner {
			return core.ErrForbidden
		}
	} else if _, err := s.resolver.Resolve(ctx, actorID, orgID); err != nil {
		return err
	}

	if m.Role == core.RoleOwner && m.Status == core.MembershipActive {
		if err := s.ensureAnotherOwner(ctx, orgID, m.ID); err != nil {
			return err
		}
	}

	m.Status = core.MembershipInactive
	if err := s.store.UpdateMembership(ctx, m); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

func (s *MembershipService) ensureAnotherOwner(ctx context.Context, orgID, excludeID string) error {
	members, err := s.store.MembershipsByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	for _, other := range members {
		if other.ID != excludeID && other.Role == core.RoleOwner && other.Status == core.MembershipActive {
			return nil
		}
	}
	return core.Invalid("role", "organization must retain an active owner")
}

func (s *MembershipService) membershipInOrg(ctx context.Context, orgID, membershipID string) (core.Membership, error) {
	m, err := s.store.MembershipByID(ctx, membershipID)
	if err != nil {
		return core.Membership{}, err
	}
	if m.OrganizationID != orgID {
		return core.Membership{}, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	return m, nil
}
