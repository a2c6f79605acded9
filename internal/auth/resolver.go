// Package auth resolves a caller's effective role inside an organization and
// decides whether a requested capability is permitted. Resolution is a pure
// lookup with no caching: roles can change between calls, so every operation
// re-resolves.
package auth

import (
	"context"
	"errors"
	"fmt"

	"kassan/internal/core"
)

// Capability names one guarded operation class.
type Capability string

const (
	CapRead              Capability = "read"
	CapWriteTransaction  Capability = "write-transaction"
	CapDeleteTransaction Capability = "delete-transaction"
	CapManageCategories  Capability = "manage-categories"
	CapManageBudgets     Capability = "manage-budgets"
	CapManageTrips       Capability = "manage-trips"
	CapManageMembers     Capability = "manage-members"
	CapManageBilling     Capability = "manage-billing"
)

// roleCapabilities maps each role to its capability set. Members may create
// and delete transactions org-wide; the observed policy gates deletion by
// organization membership only, not by creator.
var roleCapabilities = map[core.MembershipRole]map[Capability]bool{
	core.RoleViewer: caps(CapRead),
	core.RoleMember: caps(CapRead, CapWriteTransaction, CapDeleteTransaction),
	core.RoleAdmin: caps(CapRead, CapWriteTransaction, CapDeleteTransaction,
		CapManageCategories, CapManageBudgets, CapManageTrips, CapManageMembers),
	core.RoleOwner: caps(CapRead, CapWriteTransaction, CapDeleteTransaction,
		CapManageCategories, CapManageBudgets, CapManageTrips, CapManageMembers, CapManageBilling),
}

func caps(cs ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(cs))
	for _, c := range cs {
		m[c] = true
	}
	return m
}

// Allows reports whether a role carries a capability.
func Allows(role core.MembershipRole, cap Capability) bool {
	return roleCapabilities[role][cap]
}

// MembershipSource is the slice of the store the resolver needs.
type MembershipSource interface {
	MembershipByProfileOrg(ctx context.Context, profileID, orgID string) (core.Membership, error)
	OrganizationByID(ctx context.Context, id string) (core.Organization, error)
}

// Resolver evaluates membership and capability checks against the store.
type Resolver struct {
	store MembershipSource
}

func NewResolver(store MembershipSource) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the caller's active membership in the organization.
// A missing, invited or inactive membership, as well as a suspended or
// soft-deleted organization, yields ErrNotAMember.
func (r *Resolver) Resolve(ctx context.Context, profileID, orgID string) (core.Membership, error) {
	if profileID == "" || orgID == "" {
		return core.Membership{}, core.ErrNotAMember
	}

	org, err := r.store.OrganizationByID(ctx, orgID)
	if err != nil {
		if isNotFound(err) {
			return core.Membership{}, core.ErrNotAMember
		}
		return core.Membership{}, fmt.Errorf("resolve organization: %w", err)
	}
	if org.Status != core.OrganizationActive {
		return core.Membership{}, core.ErrNotAMember
	}

	m, err := r.store.MembershipByProfileOrg(ctx, profileID, orgID)
	if err != nil {
		if isNotFound(err) {
			return core.Membership{}, core.ErrNotAMember
		}
		return core.Membership{}, fmt.Errorf("resolve membership: %w", err)
	}
	if m.Status != core.MembershipActive {
		return core.Membership{}, core.ErrNotAMember
	}
	return m, nil
}

// Require resolves the membership and checks the capability in one step.
func (r *Resolver) Require(ctx context.Context, profileID, orgID string, cap Capability) (core.Membership, error) {
	m, err := r.Resolve(ctx, profileID, orgID)
	if err != nil {
		return core.Membership{}, err
	}
	if !Allows(m.Role, cap) {
		return core.Membership{}, core.ErrForbidden
	}
	return m, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
