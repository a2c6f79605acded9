package core

type (
	TransactionType    string
	CategoryType       string
	MembershipRole     string
	MembershipStatus   string
	OrganizationStatus string
	OrganizationType   string
	BudgetPeriod       string
	SubscriptionStatus string
	SubscriptionTier   string
	TripStatus         string
)

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

const (
	RoleOwner  MembershipRole = "owner"
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
	RoleViewer MembershipRole = "viewer"
)

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInvited  MembershipStatus = "invited"
	MembershipInactive MembershipStatus = "inactive"
)

const (
	OrganizationActive    OrganizationStatus = "active"
	OrganizationSuspended OrganizationStatus = "suspended"
	OrganizationDeleted   OrganizationStatus = "deleted"
)

const (
	OrganizationHousehold OrganizationType = "household"
	OrganizationBusiness  OrganizationType = "business"
)

const (
	BudgetMonthly   BudgetPeriod = "monthly"
	BudgetQuarterly BudgetPeriod = "quarterly"
	BudgetYearly    BudgetPeriod = "yearly"
)

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionTrialing SubscriptionStatus = "trialing"
)

const (
	TierFree     SubscriptionTier = "free"
	TierPremium  SubscriptionTier = "premium"
	TierFamily   SubscriptionTier = "family"
	TierBusiness SubscriptionTier = "business"
)

const (
	TripPlanning  TripStatus = "planning"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCanceled  TripStatus = "canceled"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionExpense, TransactionIncome, TransactionTransfer:
		return true
	}
	return false
}

func (t CategoryType) Valid() bool {
	return t == CategoryExpense || t == CategoryIncome
}

func (r MembershipRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

func (t OrganizationType) Valid() bool {
	return t == OrganizationHousehold || t == OrganizationBusiness
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetMonthly, BudgetQuarterly, BudgetYearly:
		return true
	}
	return false
}

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierFamily, TierBusiness:
		return true
	}
	return false
}

func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanning, TripOngoing, TripCompleted, TripCanceled:
		return true
	}
	return false
}

// Matches reports whether a category of type c may be attached to a
// transaction of type t. Transfers are exempt from category typing.
func (c CategoryType) Matches(t TransactionType) bool {
	if t == TransactionTransfer {
		return true
	}
	return string(c) == string(t)
}
