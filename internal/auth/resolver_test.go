package auth

import (
	"context"
	"errors"
	"testing"

	"kassan/internal/core"
)

type fakeSource struct {
	orgs        map[string]core.Organization
	memberships map[string]core.Membership // key profileID + "/" + orgID
}

func (f *fakeSource) OrganizationByID(_ context.Context, id string) (core.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return core.Organization{}, core.ErrNotFound
	}
	return org, nil
}

func (f *fakeSource) MembershipByProfileOrg(_ context.Context, profileID, orgID string) (core.Membership, error) {
	m, ok := f.memberships[profileID+"/"+orgID]
	if !ok {
		return core.Membership{}, core.ErrNotFound
	}
	return m, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		orgs:        make(map[string]core.Organization),
		memberships: make(map[string]core.Membership),
	}
}

func (f *fakeSource) addOrg(id string, status core.OrganizationStatus) {
	f.orgs[id] = core.Organization{ID: id, Status: status}
}

func (f *fakeSource) addMember(profileID, orgID string, role core.MembershipRole, status core.MembershipStatus) {
	f.memberships[profileID+"/"+orgID] = core.Membership{
		ID:             "m-" + profileID,
		OrganizationID: orgID,
		ProfileID:      profileID,
		Role:           role,
		Status:         status,
	}
}

func TestResolve(t *testing.T) {
	src := newFakeSource()
	src.addOrg("org-active", core.OrganizationActive)
	src.addOrg("org-suspended", core.OrganizationSuspended)
	src.addOrg("org-deleted", core.OrganizationDeleted)
	src.addMember("alice", "org-active", core.RoleMember, core.MembershipActive)
	src.addMember("bob", "org-active", core.RoleAdmin, core.MembershipInvited)
	src.addMember("carol", "org-active", core.RoleOwner, core.MembershipInactive)
	src.addMember("alice", "org-suspended", core.RoleOwner, core.MembershipActive)
	src.addMember("alice", "org-deleted", core.RoleOwner, core.MembershipActive)

	r := NewResolver(src)
	ctx := context.Background()

	tests := []struct {
		name      string
		profileID string
		orgID     string
		wantErr   error
	}{
		{"active member of active org", "alice", "org-active", nil},
		{"no membership at all", "mallory", "org-active", core.ErrNotAMember},
		{"invited but not accepted", "bob", "org-active", core.ErrNotAMember},
		{"inactive membership", "carol", "org-active", core.ErrNotAMember},
		{"suspended organization", "alice", "org-suspended", core.ErrNotAMember},
		{"deleted organization", "alice", "org-deleted", core.ErrNotAMember},
		{"unknown organization", "alice", "org-ghost", core.ErrNotAMember},
		{"empty profile id", "", "org-active", core.ErrNotAMember},
		{"empty org id", "alice", "", core.ErrNotAMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Resolve(ctx, tt.profileID, tt.orgID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if m.ProfileID != tt.profileID || m.OrganizationID != tt.orgID {
				t.Errorf("resolved membership %+v does not match caller", m)
			}
		})
	}
}

func TestAllows(t *testing.T) {
	all := []Capability{
		CapRead, CapWriteTransaction, CapDeleteTransaction,
		CapManageCategories, CapManageBudgets, CapManageTrips,
		CapManageMembers, CapManageBilling,
	}

	granted := map[core.MembershipRole]map[Capability]bool{
		core.RoleViewer: {CapRead: true},
		core.RoleMember: {CapRead: true, CapWriteTransaction: true, CapDeleteTransaction: true},
		core.RoleAdmin: {
			CapRead: true, CapWriteTransaction: true, CapDeleteTransaction: true,
			CapManageCategories: true, CapManageBudgets: true, CapManageTrips: true,
			CapManageMembers: true,
		},
		core.RoleOwner: {
			CapRead: true, CapWriteTransaction: true, CapDeleteTransaction: true,
			CapManageCategories: true, CapManageBudgets: true, CapManageTrips: true,
			CapManageMembers: true, CapManageBilling: true,
		},
	}

	for role, want := range granted {
		for _, c := range all {
			if got := Allows(role, c); got != want[c] {
				t.Errorf("Allows(%s, %s) = %v, want %v", role, c, got, want[c])
			}
		}
	}

	if Allows("stranger", CapRead) {
		t.Error("unknown role must not carry any capability")
	}
}

func TestRequire(t *testing.T) {
	src := newFakeSource()
	src.addOrg("org-1", core.OrganizationActive)
	src.addMember("viewer", "org-1", core.RoleViewer, core.MembershipActive)
	src.addMember("owner", "org-1", core.RoleOwner, core.MembershipActive)

	r := NewResolver(src)
	ctx := context.Background()

	if _, err := r.Require(ctx, "viewer", "org-1", CapRead); err != nil {
		t.Errorf("viewer read: unexpected error %v", err)
	}
	if _, err := r.Require(ctx, "viewer", "org-1", CapWriteTransaction); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("viewer write: error = %v, want ErrForbidden", err)
	}
	if _, err := r.Require(ctx, "owner", "org-1", CapManageBilling); err != nil {
		t.Errorf("owner billing: unexpected error %v", err)
	}
	if _, err := r.Require(ctx, "nobody", "org-1", CapRead); !errors.Is(err, core.ErrNotAMember) {
		t.Errorf("non-member: error = %v, want ErrNotAMember", err)
	}
}
