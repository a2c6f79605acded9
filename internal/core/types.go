package core

import (
	"strings"
	"time"
)

// Profile is one authenticated user. Identity (id, email) comes from the
// external identity provider and is trusted as given.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization is the tenant boundary. Every financial entity belongs to
// exactly one organization. Deletion is soft: status plus DeletedAt.
type Organization struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Type                 OrganizationType   `json:"type"`
	Status               OrganizationStatus `json:"status"`
	Currency             string             `json:"currency"`
	FiscalYearStartMonth int                `json:"fiscal_year_start_month"`
	VATNumber            string             `json:"vat_number,omitempty"`
	BusinessRegNumber    string             `json:"business_registration_number,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	DeletedAt            *time.Time         `json:"deleted_at,omitempty"`
}

// Membership links a profile to an organization with a role. A profile holds
// at most one membership per organization; only status=active grants access.
type Membership struct {
	ID             string           `json:"id"`
	OrganizationID string           `json:"organization_id"`
	ProfileID      string           `json:"user_id"`
	Role           MembershipRole   `json:"role"`
	Status         MembershipStatus `json:"status"`
	InvitedBy      string           `json:"invited_by,omitempty"`
	InvitedAt      *time.Time       `json:"invited_at,omitempty"`
	AcceptedAt     *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Category classifies expense or income transactions. System defaults are
// shared across organizations; the rest are organization-owned. A single
// level of nesting is allowed through ParentID.
type Category struct {
	ID              string       `json:"id"`
	OrganizationID  string       `json:"organization_id,omitempty"`
	Name            string       `json:"name"`
	Type            CategoryType `json:"type"`
	Color           string       `json:"color,omitempty"`
	Icon            string       `json:"icon,omitempty"`
	ParentID        string       `json:"parent_category_id,omitempty"`
	IsSystemDefault bool         `json:"is_system_default"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CategoryRef is the denormalized category info joined onto listed
// transactions for display.
type CategoryRef struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Transaction is a single recorded monetary movement.
type Transaction struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Type           TransactionType `json:"type"`
	Amount         Money           `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	Description    string          `json:"description"`
	Notes          string          `json:"notes,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	CategoryID     string          `json:"category_id,omitempty"`
	TripID         string          `json:"trip_id,omitempty"`
	ReceiptURL     string          `json:"receipt_url,omitempty"`
	Date           Date            `json:"transaction_date"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Populated by list queries only.
	Category *CategoryRef `json:"category,omitempty"`
}

const maxDescriptionLen = 200

// Validate checks the row-local invariants. Cross-entity rules (category
// scope and type match, trip scope) live in the service layer where the
// referenced rows are at hand.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return Invalid("description", "empty")
	}
	if len(t.Description) > maxDescriptionLen {
		return Invalid("description", "too long (max 200 characters)")
	}
	if !t.Type.Valid() {
		return Invalid("type", "must be expense, income or transfer")
	}
	if t.Amount.IsNegative() {
		return Invalid("amount", "must not be negative")
	}
	if t.Date.IsZero() {
		return Invalid("transaction_date", "missing")
	}
	if t.OrganizationID == "" {
		return Invalid("organization_id", "missing")
	}
	return nil
}

// Budget is a named spending plan over a period.
type Budget struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id"`
	Name           string       `json:"name"`
	Period         BudgetPeriod `json:"period"`
	TotalAmount    Money        `json:"total_amount"`
	StartDate      Date         `json:"start_date"`
	EndDate        Date         `json:"end_date"`
	CreatedBy      string       `json:"created_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return Invalid("name", "empty")
	}
	if !b.Period.Valid() {
		return Invalid("period", "must be monthly, quarterly or yearly")
	}
	if b.TotalAmount.IsNegative() {
		return Invalid("total_amount", "must not be negative")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return Invalid("start_date", "budget needs start and end dates")
	}
	if b.EndDate.Before(b.StartDate) {
		return Invalid("end_date", "must not precede start_date")
	}
	return nil
}

// BudgetAllocation assigns part of a budget total to one category.
// The allocations of a budget must never sum above its total.
type BudgetAllocation struct {
	ID         string    `json:"id"`
	BudgetID   string    `json:"budget_id"`
	CategoryID string    `json:"category_id"`
	Amount     Money     `json:"allocated_amount"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Trip groups transactions under a named event with its own budget.
type Trip struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Destination    string     `json:"destination,omitempty"`
	Status         TripStatus `json:"status"`
	BudgetAmount   Money      `json:"budget_amount"`
	StartDate      Date       `json:"start_date,omitempty"`
	EndDate        Date       `json:"end_date,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CanTransition reports whether a trip may move from its current status to
// next. Forward-only through planning -> ongoing -> completed; canceled is
// reachable from any non-terminal state.
func (t Trip) CanTransition(next TripStatus) bool {
	if t.Status == TripCompleted || t.Status == TripCanceled {
		return false
	}
	switch next {
	case TripCanceled:
		return true
	case TripOngoing:
		return t.Status == TripPlanning
	case TripCompleted:
		return t.Status == TripOngoing
	}
	return false
}

// Subscription tracks the billing tier and usage ceilings of one
// organization. Ceilings of zero mean unlimited.
type Subscription struct {
	ID                      string             `json:"id"`
	OrganizationID          string             `json:"organization_id"`
	Tier                    SubscriptionTier   `json:"tier"`
	Status                  SubscriptionStatus `json:"status"`
	MaxMembers              int                `json:"max_members"`
	MaxTransactionsPerMonth int                `json:"max_transactions_per_month"`
	CurrentPeriodStart      *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd        *time.Time         `json:"current_period_end,omitempty"`
	TrialEnd                *time.Time         `json:"trial_end,omitempty"`
	CanceledAt              *time.Time         `json:"canceled_at,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}
