package services

import (
	"context"
	"errors"
	"testing"

	"kassan/internal/core"
)

func TestMembershipInviteAndAccept(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	newID := "p-new"
	if _, err := e.store.UpsertProfile(ctx, core.Profile{ID: newID, Email: "new@example.com"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	m, err := e.memberships.Invite(ctx, adminID, e.orgID, newID, core.RoleMember)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if m.Status != core.MembershipInvited {
		t.Errorf("status = %s, want invited", m.Status)
	}
	if m.InvitedBy != adminID || m.InvitedAt == nil {
		t.Errorf("invitation metadata missing: %+v", m)
	}

	// An invitation grants no access yet.
	if _, err := e.resolver.Resolve(ctx, newID, e.orgID); !errors.Is(err, core.ErrNotAMember) {
		t.Errorf("invited profile resolved as member: %v", err)
	}

	// Someone else cannot accept it.
	if _, err := e.memberships.Accept(ctx, memberID, m.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign accept: error = %v, want ErrNotFound", err)
	}

	accepted, err := e.memberships.Accept(ctx, newID, m.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != core.MembershipActive || accepted.AcceptedAt == nil {
		t.Errorf("accepted membership = %+v", accepted)
	}
	if _, err := e.resolver.Resolve(ctx, newID, e.orgID); err != nil {
		t.Errorf("accepted profile should resolve: %v", err)
	}

	// A second accept is not pending anymore.
	if _, err := e.memberships.Accept(ctx, newID, m.ID); !errors.Is(err, core.ErrValidation) {
		t.Errorf("double accept: error = %v, want ErrValidation", err)
	}
}

func TestMembershipInviteRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.memberships.Invite(ctx, memberID, e.orgID, "p-x", core.RoleMember); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("member inviting: error = %v, want ErrForbidden", err)
	}

	// Only owners hand out ownership.
	if _, err := e.memberships.Invite(ctx, adminID, e.orgID, "p-x", core.RoleOwner); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("admin granting owner: error = %v, want ErrForbidden", err)
	}

	// The invitee must exist.
	if _, err := e.memberships.Invite(ctx, adminID, e.orgID, "p-ghost", core.RoleMember); !errors.Is(err, core.ErrValidation) {
		t.Errorf("unknown profile: error = %v, want ErrValidation", err)
	}

	// No double membership.
	if _, err := e.memberships.Invite(ctx, adminID, e.orgID, memberID, core.RoleViewer); !errors.Is(err, core.ErrValidation) {
		t.Errorf("already a member: error = %v, want ErrValidation", err)
	}
}

func TestMembershipMemberQuota(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	// Four seats are taken by the seeded roles.
	e.setSubscriptionLimits(t, 4, 0)

	if _, err := e.store.UpsertProfile(ctx, core.Profile{ID: "p-fifth", Email: "fifth@example.com"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if _, err := e.memberships.Invite(ctx, ownerID, e.orgID, "p-fifth", core.RoleMember); !errors.Is(err, core.ErrQuotaExceeded) {
		t.Fatalf("fifth seat: error = %v, want ErrQuotaExceeded", err)
	}

	// Freeing a seat makes room again.
	viewer, err := e.store.MembershipByProfileOrg(ctx, viewerID, e.orgID)
	if err != nil {
		t.Fatalf("load viewer membership: %v", err)
	}
	if err := e.memberships.Remove(ctx, ownerID, e.orgID, viewer.ID); err != nil {
		t.Fatalf("remove viewer: %v", err)
	}
	if _, err := e.memberships.Invite(ctx, ownerID, e.orgID, "p-fifth", core.RoleMember); err != nil {
		t.Errorf("invite after freeing a seat: %v", err)
	}
}

func TestMembershipReinviteInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	m, err := e.store.MembershipByProfileOrg(ctx, memberID, e.orgID)
	if err != nil {
		t.Fatalf("load membership: %v", err)
	}
	if err := e.memberships.Remove(ctx, ownerID, e.orgID, m.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	again, err := e.memberships.Invite(ctx, ownerID, e.orgID, memberID, core.RoleViewer)
	if err != nil {
		t.Fatalf("re-invite: %v", err)
	}
	if again.ID != m.ID {
		t.Errorf("re-invite created a new row %s, want reuse of %s", again.ID, m.ID)
	}
	if again.Status != core.MembershipInvited || again.Role != core.RoleViewer {
		t.Errorf("re-invited membership = %+v", again)
	}
}

func TestMembershipChangeRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	viewer, err := e.store.MembershipByProfileOrg(ctx, viewerID, e.orgID)
	if err != nil {
		t.Fatalf("load viewer membership: %v", err)
	}

	got, err := e.memberships.ChangeRole(ctx, adminID, e.orgID, viewer.ID, core.RoleMember)
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if got.Role != core.RoleMember {
		t.Errorf("role = %s, want member", got.Role)
	}

	// Promotion to owner needs an owner.
	if _, err := e.memberships.ChangeRole(ctx, adminID, e.orgID, viewer.ID, core.RoleOwner); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("admin promoting to owner: error = %v, want ErrForbidden", err)
	}
	if _, err := e.memberships.ChangeRole(ctx, ownerID, e.orgID, viewer.ID, core.RoleOwner); err != nil {
		t.Errorf("owner promoting to owner: %v", err)
	}
}

func TestMembershipLastOwnerProtection(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, err := e.store.MembershipByProfileOrg(ctx, ownerID, e.orgID)
	if err != nil {
		t.Fatalf("load owner membership: %v", err)
	}

	if _, err := e.memberships.ChangeRole(ctx, ownerID, e.orgID, owner.ID, core.RoleAdmin); !errors.Is(err, core.ErrValidation) {
		t.Errorf("demoting the only owner: error = %v, want ErrValidation", err)
	}
	if err := e.memberships.Remove(ctx, ownerID, e.orgID, owner.ID); !errors.Is(err, core.ErrValidation) {
		t.Errorf("removing the only owner: error = %v, want ErrValidation", err)
	}

	// With a second owner both operations go through.
	admin, err := e.store.MembershipByProfileOrg(ctx, adminID, e.orgID)
	if err != nil {
		t.Fatalf("load admin membership: %v", err)
	}
	if _, err := e.memberships.ChangeRole(ctx, ownerID, e.orgID, admin.ID, core.RoleOwner); err != nil {
		t.Fatalf("promote second owner: %v", err)
	}
	if _, err := e.memberships.ChangeRole(ctx, ownerID, e.orgID, owner.ID, core.RoleAdmin); err != nil {
		t.Errorf("demote after second owner exists: %v", err)
	}
}

func TestMembershipSelfLeave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	m, err := e.store.MembershipByProfileOrg(ctx, viewerID, e.orgID)
	if err != nil {
		t.Fatalf("load membership: %v", err)
	}

	// Viewers lack manage-members but may still leave.
	if err := e.memberships.Remove(ctx, viewerID, e.orgID, m.ID); err != nil {
		t.Fatalf("self leave: %v", err)
	}
	if _, err := e.resolver.Resolve(ctx, viewerID, e.orgID); !errors.Is(err, core.ErrNotAMember) {
		t.Errorf("left member still resolves: %v", err)
	}

	// But removing someone else still needs the capability.
	other, err := e.store.MembershipByProfileOrg(ctx, adminID, e.orgID)
	if err != nil {
		t.Fatalf("load membership: %v", err)
	}
	if err := e.memberships.Remove(ctx, memberID, e.orgID, other.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("member removing admin: error = %v, want ErrForbidden", err)
	}
}

func TestMembershipList(t *testing.T) {
	e := newEnv(t)

	members, err := e.memberships.List(context.Background(), viewerID, e.orgID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(members) != 4 {
		t.Errorf("listed %d members, want 4", len(members))
	}
}
