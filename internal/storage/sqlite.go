package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"kassan/internal/core"
)

// SQLiteStore implements Store on an embedded sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable turns "" into NULL so optional foreign keys stay clean.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func fromNull(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func dateFromNull(ns sql.NullString) (core.Date, error) {
	if !ns.Valid || ns.String == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(ns.String)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// ---- profiles ----

func (s *SQLiteStore) UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, avatar_url, locale, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			avatar_url = excluded.avatar_url,
			locale = excluded.locale,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		p.ID, p.Email, p.FullName, p.AvatarURL, p.Locale, p.Timezone, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return core.Profile{}, translate("upsert profile", err)
	}
	return s.ProfileByID(ctx, p.ID)
}

func (s *SQLiteStore) ProfileByID(ctx context.Context, id string) (core.Profile, error) {
	var p core.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, avatar_url, locale, timezone, created_at, updated_at
		FROM profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Locale, &p.Timezone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return core.Profile{}, translate("get profile", err)
	}
	return p, nil
}

// ---- organizations ----

func (s *SQLiteStore) CreateOrganization(ctx context.Context, o core.Organization) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations
			(id, name, type, status, currency, fiscal_year_start_month,
			 vat_number, business_registration_number, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Type, o.Status, o.Currency, o.FiscalYearStartMonth,
		o.VATNumber, o.BusinessRegNumber, o.CreatedAt, o.UpdatedAt, nullableTime(o.DeletedAt))
	return translate("create organization", err)
}

func (s *SQLiteStore) OrganizationByID(ctx context.Context, id string) (core.Organization, error) {
	var (
		o         core.Organization
		deletedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, status, currency, fiscal_year_start_month,
		       vat_number, business_registration_number, created_at, updated_at, deleted_at
		FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.Type, &o.Status, &o.Currency, &o.FiscalYearStartMonth,
			&o.VATNumber, &o.BusinessRegNumber, &o.CreatedAt, &o.UpdatedAt, &deletedAt)
	if err != nil {
		return core.Organization{}, translate("get organization", err)
	}
	o.DeletedAt = timePtr(deletedAt)
	return o, nil
}

func (s *SQLiteStore) UpdateOrganization(ctx context.Context, o core.Organization) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE organizations
		SET name = ?, type = ?, status = ?, currency = ?, fiscal_year_start_month = ?,
		    vat_number = ?, business_registration_number = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`,
		o.Name, o.Type, o.Status, o.Currency, o.FiscalYearStartMonth,
		o.VATNumber, o.BusinessRegNumber, time.Now().UTC(), nullableTime(o.DeletedAt), o.ID)
	if err != nil {
		return translate("update organization", err)
	}
	return affectedOne("update organization", res)
}

// ---- memberships ----

const membershipCols = `id, organization_id, user_id, role, status, invited_by,
	invited_at, accepted_at, created_at, updated_at`

func (s *SQLiteStore) CreateMembership(ctx context.Context, m core.Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organization_memberships (`+membershipCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OrganizationID, m.ProfileID, m.Role, m.Status, nullable(m.InvitedBy),
		nullableTime(m.InvitedAt), nullableTime(m.AcceptedAt), m.CreatedAt, m.UpdatedAt)
	return translate("create membership", err)
}

func (s *SQLiteStore) scanMembership(row interface{ Scan(...any) error }) (core.Membership, error) {
	var (
		m          core.Membership
		invitedBy  sql.NullString
		invitedAt  sql.NullTime
		acceptedAt sql.NullTime
	)
	err := row.Scan(&m.ID, &m.OrganizationID, &m.ProfileID, &m.Role, &m.Status,
		&invitedBy, &invitedAt, &acceptedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return core.Membership{}, err
	}
	m.InvitedBy = fromNull(invitedBy)
	m.InvitedAt = timePtr(invitedAt)
	m.AcceptedAt = timePtr(acceptedAt)
	return m, nil
}

func (s *SQLiteStore) MembershipByID(ctx context.Context, id string) (core.Membership, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+membershipCols+` FROM organization_memberships WHERE id = ?`, id)
	m, err := s.scanMembership(row)
	if err != nil {
		return core.Membership{}, translate("get membership", err)
	}
	return m, nil
}

func (s *SQLiteStore) MembershipByProfileOrg(ctx context.Context, profileID, orgID string) (core.Membership, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+membershipCols+` FROM organization_memberships
		WHERE user_id = ? AND organization_id = ?`, profileID, orgID)
	m, err := s.scanMembership(row)
	if err != nil {
		return core.Membership{}, translate("get membership", err)
	}
	return m, nil
}

func (s *SQLiteStore) MembershipsByProfile(ctx context.Context, profileID string) ([]core.Membership, error) {
	return s.listMemberships(ctx, `
		SELECT `+membershipCols+` FROM organization_memberships
		WHERE user_id = ? ORDER BY created_at`, profileID)
}

func (s *SQLiteStore) MembershipsByOrganization(ctx context.Context, orgID string) ([]core.Membership, error) {
	return s.listMemberships(ctx, `
		SELECT `+membershipCols+` FROM organization_memberships
		WHERE organization_id = ? ORDER BY created_at`, orgID)
}

func (s *SQLiteStore) listMemberships(ctx context.Context, query string, arg any) ([]core.Membership, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, translate("list memberships", err)
	}
	defer rows.Close()

	var out []core.Membership
	for rows.Next() {
		m, err := s.scanMembership(rows)
		if err != nil {
			return nil, translate("scan membership", err)
		}
		out = append(out, m)
	}
	return out, translate("list memberships", rows.Err())
}

func (s *SQLiteStore) UpdateMembership(ctx context.Context, m core.Membership) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE organization_memberships
		SET role = ?, status = ?, accepted_at = ?, updated_at = ?
		WHERE id = ?`,
		m.Role, m.Status, nullableTime(m.AcceptedAt), time.Now().UTC(), m.ID)
	if err != nil {
		return translate("update membership", err)
	}
	return affectedOne("update membership", res)
}

// ---- categories ----

func (s *SQLiteStore) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories
			(id, organization_id, name, type, color, icon, parent_category_id,
			 is_system_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, nullable(c.OrganizationID), c.Name, c.Type, c.Color, c.Icon,
		nullable(c.ParentID), c.IsSystemDefault, c.CreatedAt, c.UpdatedAt)
	return translate("create category", err)
}

func (s *SQLiteStore) scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var (
		c      core.Category
		orgID  sql.NullString
		parent sql.NullString
	)
	err := row.Scan(&c.ID, &orgID, &c.Name, &c.Type, &c.Color, &c.Icon,
		&parent, &c.IsSystemDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Category{}, err
	}
	c.OrganizationID = fromNull(orgID)
	c.ParentID = fromNull(parent)
	return c, nil
}

const categoryCols = `id, organization_id, name, type, color, icon,
	parent_category_id, is_system_default, created_at, updated_at`

func (s *SQLiteStore) CategoryByID(ctx context.Context, id string) (core.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := s.scanCategory(row)
	if err != nil {
		return core.Category{}, translate("get category", err)
	}
	return c, nil
}

func (s *SQLiteStore) CategoriesForOrganization(ctx context.Context, orgID string, typ core.CategoryType) ([]core.Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories
		WHERE (organization_id = ? OR is_system_default = 1)`
	args := []any{orgID}
	if typ != "" {
		query += ` AND type = ?`
		args = append(args, typ)
	}
	query += ` ORDER BY is_system_default, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list categories", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := s.scanCategory(rows)
		if err != nil {
			return nil, translate("scan category", err)
		}
		out = append(out, c)
	}
	return out, translate("list categories", rows.Err())
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return translate("delete category", err)
	}
	return affectedOne("delete category", res)
}

// ---- transactions ----

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, organization_id, type, amount, currency, description, notes, tags,
			 category_id, trip_id, receipt_url, transaction_date, created_by,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OrganizationID, t.Type, t.Amount.String(), t.Currency, t.Description,
		t.Notes, encodeTags(t.Tags), nullable(t.CategoryID), nullable(t.TripID),
		t.ReceiptURL, t.Date.String(), nullable(t.CreatedBy), t.CreatedAt, t.UpdatedAt)
	return translate("create transaction", err)
}

func (s *SQLiteStore) scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t          core.Transaction
		amount     string
		tagsRaw    string
		date       string
		categoryID sql.NullString
		tripID     sql.NullString
		createdBy  sql.NullString
		catName    sql.NullString
		catColor   sql.NullString
	)
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Type, &amount, &t.Currency,
		&t.Description, &t.Notes, &tagsRaw, &categoryID, &tripID, &t.ReceiptURL,
		&date, &createdBy, &t.CreatedAt, &t.UpdatedAt, &catName, &catColor)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Amount, err = core.ParseMoney(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	t.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Tags = decodeTags(tagsRaw)
	t.CategoryID = fromNull(categoryID)
	t.TripID = fromNull(tripID)
	t.CreatedBy = fromNull(createdBy)
	if catName.Valid {
		t.Category = &core.CategoryRef{Name: catName.String, Color: fromNull(catColor)}
	}
	return t, nil
}

const transactionSelect = `
	SELECT t.id, t.organization_id, t.type, t.amount, t.currency, t.description,
	       t.notes, t.tags, t.category_id, t.trip_id, t.receipt_url,
	       t.transaction_date, t.created_by, t.created_at, t.updated_at,
	       c.name, c.color
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id`

func (s *SQLiteStore) TransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id)
	t, err := s.scanTransaction(row)
	if err != nil {
		return core.Transaction{}, translate("get transaction", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, orgID string, f TransactionFilter) ([]core.Transaction, error) {
	query := transactionSelect + ` WHERE t.organization_id = ?`
	args := []any{orgID}

	if f.Type != "" {
		query += ` AND t.type = ?`
		args = append(args, f.Type)
	}
	if f.CategoryID != "" {
		query += ` AND t.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.TripID != "" {
		query += ` AND t.trip_id = ?`
		args = append(args, f.TripID)
	}
	if f.Year != 0 && f.Month != 0 {
		query += ` AND t.transaction_date >= ? AND t.transaction_date < ?`
		args = append(args,
			core.MonthStart(f.Year, f.Month).String(),
			core.NextMonthStart(f.Year, f.Month).String())
	}

	query += ` ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC LIMIT ? OFFSET ?`
	args = append(args, f.EffectiveLimit(), f.EffectiveOffset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := s.scanTransaction(rows)
		if err != nil {
			return nil, translate("scan transaction", err)
		}
		out = append(out, t)
	}
	return out, translate("list transactions", rows.Err())
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return translate("delete transaction", err)
	}
	return affectedOne("delete transaction", res)
}

func (s *SQLiteStore) CountTransactionsInMonth(ctx context.Context, orgID string, year int, month time.Month) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE organization_id = ? AND transaction_date >= ? AND transaction_date < ?`,
		orgID, core.MonthStart(year, month).String(), core.NextMonthStart(year, month).String()).
		Scan(&n)
	if err != nil {
		return 0, translate("count transactions", err)
	}
	return n, nil
}

// ---- budgets ----

func (s *SQLiteStore) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets
			(id, organization_id, name, period, total_amount, start_date, end_date,
			 created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.OrganizationID, b.Name, b.Period, b.TotalAmount.String(),
		b.StartDate.String(), b.EndDate.String(), nullable(b.CreatedBy), b.CreatedAt, b.UpdatedAt)
	return translate("create budget", err)
}

func (s *SQLiteStore) scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b         core.Budget
		amount    string
		start     string
		end       string
		createdBy sql.NullString
	)
	err := row.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Period, &amount,
		&start, &end, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	if b.TotalAmount, err = core.ParseMoney(amount); err != nil {
		return core.Budget{}, err
	}
	if b.StartDate, err = core.ParseDate(start); err != nil {
		return core.Budget{}, err
	}
	if b.EndDate, err = core.ParseDate(end); err != nil {
		return core.Budget{}, err
	}
	b.CreatedBy = fromNull(createdBy)
	return b, nil
}

const budgetCols = `id, organization_id, name, period, total_amount, start_date,
	end_date, created_by, created_at, updated_at`

func (s *SQLiteStore) BudgetByID(ctx context.Context, id string) (core.Budget, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+budgetCols+` FROM budgets WHERE id = ?`, id)
	b, err := s.scanBudget(row)
	if err != nil {
		return core.Budget{}, translate("get budget", err)
	}
	return b, nil
}

func (s *SQLiteStore) BudgetsByOrganization(ctx context.Context, orgID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+budgetCols+` FROM budgets
		WHERE organization_id = ? ORDER BY start_date DESC, created_at DESC`, orgID)
	if err != nil {
		return nil, translate("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := s.scanBudget(rows)
		if err != nil {
			return nil, translate("scan budget", err)
		}
		out = append(out, b)
	}
	return out, translate("list budgets", rows.Err())
}

func (s *SQLiteStore) CreateAllocation(ctx context.Context, a core.BudgetAllocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budget_allocations
			(id, budget_id, category_id, allocated_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.BudgetID, a.CategoryID, a.Amount.String(), a.CreatedAt, a.UpdatedAt)
	return translate("create allocation", err)
}

func (s *SQLiteStore) AllocationsByBudget(ctx context.Context, budgetID string) ([]core.BudgetAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, budget_id, category_id, allocated_amount, created_at, updated_at
		FROM budget_allocations WHERE budget_id = ? ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, translate("list allocations", err)
	}
	defer rows.Close()

	var out []core.BudgetAllocation
	for rows.Next() {
		var (
			a      core.BudgetAllocation
			amount string
		)
		if err := rows.Scan(&a.ID, &a.BudgetID, &a.CategoryID, &amount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translate("scan allocation", err)
		}
		if a.Amount, err = core.ParseMoney(amount); err != nil {
			return nil, translate("scan allocation", err)
		}
		out = append(out, a)
	}
	return out, translate("list allocations", rows.Err())
}

func (s *SQLiteStore) DeleteAllocation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budget_allocations WHERE id = ?`, id)
	if err != nil {
		return translate("delete allocation", err)
	}
	return affectedOne("delete allocation", res)
}

// ---- trips ----

func (s *SQLiteStore) CreateTrip(ctx context.Context, t core.Trip) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trips
			(id, organization_id, name, description, destination, status,
			 budget_amount, start_date, end_date, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OrganizationID, t.Name, t.Description, t.Destination, t.Status,
		t.BudgetAmount.String(), nullableDate(t.StartDate), nullableDate(t.EndDate),
		nullable(t.CreatedBy), t.CreatedAt, t.UpdatedAt)
	return translate("create trip", err)
}

func (s *SQLiteStore) scanTrip(row interface{ Scan(...any) error }) (core.Trip, error) {
	var (
		t         core.Trip
		amount    string
		start     sql.NullString
		end       sql.NullString
		createdBy sql.NullString
	)
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Description, &t.Destination,
		&t.Status, &amount, &start, &end, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Trip{}, err
	}
	if t.BudgetAmount, err = core.ParseMoney(amount); err != nil {
		return core.Trip{}, err
	}
	if t.StartDate, err = dateFromNull(start); err != nil {
		return core.Trip{}, err
	}
	if t.EndDate, err = dateFromNull(end); err != nil {
		return core.Trip{}, err
	}
	t.CreatedBy = fromNull(createdBy)
	return t, nil
}

const tripCols = `id, organization_id, name, description, destination, status,
	budget_amount, start_date, end_date, created_by, created_at, updated_at`

func (s *SQLiteStore) TripByID(ctx context.Context, id string) (core.Trip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tripCols+` FROM trips WHERE id = ?`, id)
	t, err := s.scanTrip(row)
	if err != nil {
		return core.Trip{}, translate("get trip", err)
	}
	return t, nil
}

func (s *SQLiteStore) TripsByOrganization(ctx context.Context, orgID string) ([]core.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tripCols+` FROM trips
		WHERE organization_id = ? ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, translate("list trips", err)
	}
	defer rows.Close()

	var out []core.Trip
	for rows.Next() {
		t, err := s.scanTrip(rows)
		if err != nil {
			return nil, translate("scan trip", err)
		}
		out = append(out, t)
	}
	return out, translate("list trips", rows.Err())
}

func (s *SQLiteStore) UpdateTrip(ctx context.Context, t core.Trip) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trips
		SET name = ?, description = ?, destination = ?, status = ?,
		    budget_amount = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Description, t.Destination, t.Status, t.BudgetAmount.String(),
		nullableDate(t.StartDate), nullableDate(t.EndDate), time.Now().UTC(), t.ID)
	if err != nil {
		return translate("update trip", err)
	}
	return affectedOne("update trip", res)
}

// ---- subscriptions ----

func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub core.Subscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions
			(id, organization_id, tier, status, max_members, max_transactions_per_month,
			 current_period_start, current_period_end, trial_end, canceled_at,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.OrganizationID, sub.Tier, sub.Status, sub.MaxMembers,
		sub.MaxTransactionsPerMonth, nullableTime(sub.CurrentPeriodStart),
		nullableTime(sub.CurrentPeriodEnd), nullableTime(sub.TrialEnd),
		nullableTime(sub.CanceledAt), sub.CreatedAt, sub.UpdatedAt)
	return translate("create subscription", err)
}

func (s *SQLiteStore) SubscriptionByOrganization(ctx context.Context, orgID string) (core.Subscription, error) {
	var (
		sub         core.Subscription
		periodStart sql.NullTime
		periodEnd   sql.NullTime
		trialEnd    sql.NullTime
		canceledAt  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, tier, status, max_members, max_transactions_per_month,
		       current_period_start, current_period_end, trial_end, canceled_at,
		       created_at, updated_at
		FROM subscriptions WHERE organization_id = ?`, orgID).
		Scan(&sub.ID, &sub.OrganizationID, &sub.Tier, &sub.Status, &sub.MaxMembers,
			&sub.MaxTransactionsPerMonth, &periodStart, &periodEnd, &trialEnd,
			&canceledAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return core.Subscription{}, translate("get subscription", err)
	}
	sub.CurrentPeriodStart = timePtr(periodStart)
	sub.CurrentPeriodEnd = timePtr(periodEnd)
	sub.TrialEnd = timePtr(trialEnd)
	sub.CanceledAt = timePtr(canceledAt)
	return sub, nil
}

func (s *SQLiteStore) UpdateSubscription(ctx context.Context, sub core.Subscription) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET tier = ?, status = ?, max_members = ?, max_transactions_per_month = ?,
		    current_period_start = ?, current_period_end = ?, trial_end = ?,
		    canceled_at = ?, updated_at = ?
		WHERE id = ?`,
		sub.Tier, sub.Status, sub.MaxMembers, sub.MaxTransactionsPerMonth,
		nullableTime(sub.CurrentPeriodStart), nullableTime(sub.CurrentPeriodEnd),
		nullableTime(sub.TrialEnd), nullableTime(sub.CanceledAt), time.Now().UTC(), sub.ID)
	if err != nil {
		return translate("update subscription", err)
	}
	return affectedOne("update subscription", res)
}

// affectedOne converts a zero-row mutation into core.ErrNotFound.
func affectedOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translate(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
