package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kassan/internal/core"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := RunPostgresMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func pgTranslate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return translate(op, err)
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func fromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func datePtr(d core.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return &t
}

func dateFromPtr(p *time.Time) core.Date {
	if p == nil {
		return core.Date{}
	}
	return core.DateOf(*p)
}

// ---- profiles ----

func (s *PostgresStore) UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (id, email, full_name, avatar_url, locale, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			avatar_url = EXCLUDED.avatar_url,
			locale = EXCLUDED.locale,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Email, p.FullName, p.AvatarURL, p.Locale, p.Timezone, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return core.Profile{}, pgTranslate("upsert profile", err)
	}
	return s.ProfileByID(ctx, p.ID)
}

func (s *PostgresStore) ProfileByID(ctx context.Context, id string) (core.Profile, error) {
	var p core.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, full_name, avatar_url, locale, timezone, created_at, updated_at
		FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Locale, &p.Timezone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return core.Profile{}, pgTranslate("get profile", err)
	}
	return p, nil
}

// ---- organizations ----

func (s *PostgresStore) CreateOrganization(ctx context.Context, o core.Organization) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organizations
			(id, name, type, status, currency, fiscal_year_start_month,
			 vat_number, business_registration_number, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.Name, o.Type, o.Status, o.Currency, o.FiscalYearStartMonth,
		o.VATNumber, o.BusinessRegNumber, o.CreatedAt, o.UpdatedAt, o.DeletedAt)
	return pgTranslate("create organization", err)
}

func (s *PostgresStore) OrganizationByID(ctx context.Context, id string) (core.Organization, error) {
	var o core.Organization
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, type, status, currency, fiscal_year_start_month,
		       vat_number, business_registration_number, created_at, updated_at, deleted_at
		FROM organizations WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.Type, &o.Status, &o.Currency, &o.FiscalYearStartMonth,
			&o.VATNumber, &o.BusinessRegNumber, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return core.Organization{}, pgTranslate("get organization", err)
	}
	return o, nil
}

func (s *PostgresStore) UpdateOrganization(ctx context.Context, o core.Organization) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE organizations
		SET name = $1, type = $2, status = $3, currency = $4, fiscal_year_start_month = $5,
		    vat_number = $6, business_registration_number = $7, updated_at = now(), deleted_at = $8
		WHERE id = $9`,
		o.Name, o.Type, o.Status, o.Currency, o.FiscalYearStartMonth,
		o.VATNumber, o.BusinessRegNumber, o.DeletedAt, o.ID)
	if err != nil {
		return pgTranslate("update organization", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update organization: %w", core.ErrNotFound)
	}
	return nil
}

// ---- memberships ----

func (s *PostgresStore) CreateMembership(ctx context.Context, m core.Membership) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organization_memberships
			(id, organization_id, user_id, role, status, invited_by, invited_at,
			 accepted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.OrganizationID, m.ProfileID, m.Role, m.Status, strPtr(m.InvitedBy),
		m.InvitedAt, m.AcceptedAt, m.CreatedAt, m.UpdatedAt)
	return pgTranslate("create membership", err)
}

func (s *PostgresStore) scanMembership(row pgx.Row) (core.Membership, error) {
	var (
		m         core.Membership
		invitedBy *string
	)
	err := row.Scan(&m.ID, &m.OrganizationID, &m.ProfileID, &m.Role, &m.Status,
		&invitedBy, &m.InvitedAt, &m.AcceptedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return core.Membership{}, err
	}
	m.InvitedBy = fromPtr(invitedBy)
	return m, nil
}

const pgMembershipCols = `id, organization_id, user_id, role, status, invited_by,
	invited_at, accepted_at, created_at, updated_at`

func (s *PostgresStore) MembershipByID(ctx context.Context, id string) (core.Membership, error) {
	m, err := s.scanMembership(s.pool.QueryRow(ctx, `
		SELECT `+pgMembershipCols+` FROM organization_memberships WHERE id = $1`, id))
	if err != nil {
		return core.Membership{}, pgTranslate("get membership", err)
	}
	return m, nil
}

func (s *PostgresStore) MembershipByProfileOrg(ctx context.Context, profileID, orgID string) (core.Membership, error) {
	m, err := s.scanMembership(s.pool.QueryRow(ctx, `
		SELECT `+pgMembershipCols+` FROM organization_memberships
		WHERE user_id = $1 AND organization_id = $2`, profileID, orgID))
	if err != nil {
		return core.Membership{}, pgTranslate("get membership", err)
	}
	return m, nil
}

func (s *PostgresStore) MembershipsByProfile(ctx context.Context, profileID string) ([]core.Membership, error) {
	return s.listMemberships(ctx, `
		SELECT `+pgMembershipCols+` FROM organization_memberships
		WHERE user_id = $1 ORDER BY created_at`, profileID)
}

func (s *PostgresStore) MembershipsByOrganization(ctx context.Context, orgID string) ([]core.Membership, error) {
	return s.listMemberships(ctx, `
		SELECT `+pgMembershipCols+` FROM organization_memberships
		WHERE organization_id = $1 ORDER BY created_at`, orgID)
}

func (s *PostgresStore) listMemberships(ctx context.Context, query string, arg any) ([]core.Membership, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, pgTranslate("list memberships", err)
	}
	defer rows.Close()

	var out []core.Membership
	for rows.Next() {
		m, err := s.scanMembership(rows)
		if err != nil {
			return nil, pgTranslate("scan membership", err)
		}
		out = append(out, m)
	}
	return out, pgTranslate("list memberships", rows.Err())
}

func (s *PostgresStore) UpdateMembership(ctx context.Context, m core.Membership) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE organization_memberships
		SET role = $1, status = $2, accepted_at = $3, updated_at = now()
		WHERE id = $4`,
		m.Role, m.Status, m.AcceptedAt, m.ID)
	if err != nil {
		return pgTranslate("update membership", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update membership: %w", core.ErrNotFound)
	}
	return nil
}

// ---- categories ----

func (s *PostgresStore) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO categories
			(id, organization_id, name, type, color, icon, parent_category_id,
			 is_system_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, strPtr(c.OrganizationID), c.Name, c.Type, c.Color, c.Icon,
		strPtr(c.ParentID), c.IsSystemDefault, c.CreatedAt, c.UpdatedAt)
	return pgTranslate("create category", err)
}

func (s *PostgresStore) scanCategory(row pgx.Row) (core.Category, error) {
	var (
		c      core.Category
		orgID  *string
		parent *string
	)
	err := row.Scan(&c.ID, &orgID, &c.Name, &c.Type, &c.Color, &c.Icon,
		&parent, &c.IsSystemDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Category{}, err
	}
	c.OrganizationID = fromPtr(orgID)
	c.ParentID = fromPtr(parent)
	return c, nil
}

const pgCategoryCols = `id, organization_id, name, type, color, icon,
	parent_category_id, is_system_default, created_at, updated_at`

func (s *PostgresStore) CategoryByID(ctx context.Context, id string) (core.Category, error) {
	c, err := s.scanCategory(s.pool.QueryRow(ctx,
		`SELECT `+pgCategoryCols+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return core.Category{}, pgTranslate("get category", err)
	}
	return c, nil
}

func (s *PostgresStore) CategoriesForOrganization(ctx context.Context, orgID string, typ core.CategoryType) ([]core.Category, error) {
	query := `SELECT ` + pgCategoryCols + ` FROM categories
		WHERE (organization_id = $1 OR is_system_default)`
	args := []any{orgID}
	if typ != "" {
		query += ` AND type = $2`
		args = append(args, typ)
	}
	query += ` ORDER BY is_system_default, name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pgTranslate("list categories", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := s.scanCategory(rows)
		if err != nil {
			return nil, pgTranslate("scan category", err)
		}
		out = append(out, c)
	}
	return out, pgTranslate("list categories", rows.Err())
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return pgTranslate("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}
	return nil
}

// ---- transactions ----

func (s *PostgresStore) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions
			(id, organization_id, type, amount, currency, description, notes, tags,
			 category_id, trip_id, receipt_url, transaction_date, created_by,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.OrganizationID, t.Type, t.Amount.String(), t.Currency, t.Description,
		t.Notes, t.Tags, strPtr(t.CategoryID), strPtr(t.TripID), t.ReceiptURL,
		datePtr(t.Date), strPtr(t.CreatedBy), t.CreatedAt, t.UpdatedAt)
	return pgTranslate("create transaction", err)
}

const pgTransactionSelect = `
	SELECT t.id, t.organization_id, t.type, t.amount::text, t.currency, t.description,
	       t.notes, t.tags, t.category_id, t.trip_id, t.receipt_url,
	       t.transaction_date, t.created_by, t.created_at, t.updated_at,
	       c.name, c.color
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id`

func (s *PostgresStore) scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t          core.Transaction
		amount     string
		date       time.Time
		categoryID *string
		tripID     *string
		createdBy  *string
		catName    *string
		catColor   *string
	)
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Type, &amount, &t.Currency,
		&t.Description, &t.Notes, &t.Tags, &categoryID, &tripID, &t.ReceiptURL,
		&date, &createdBy, &t.CreatedAt, &t.UpdatedAt, &catName, &catColor)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.Amount, err = core.ParseMoney(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("stored amount %q: %w", amount, err)
	}
	t.Date = core.DateOf(date)
	t.CategoryID = fromPtr(categoryID)
	t.TripID = fromPtr(tripID)
	t.CreatedBy = fromPtr(createdBy)
	if catName != nil {
		t.Category = &core.CategoryRef{Name: *catName, Color: fromPtr(catColor)}
	}
	return t, nil
}

func (s *PostgresStore) TransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	t, err := s.scanTransaction(s.pool.QueryRow(ctx, pgTransactionSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return core.Transaction{}, pgTranslate("get transaction", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, orgID string, f TransactionFilter) ([]core.Transaction, error) {
	query := pgTransactionSelect + ` WHERE t.organization_id = $1`
	args := []any{orgID}

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }
	if f.Type != "" {
		args = append(args, f.Type)
		query += ` AND t.type = ` + fmt.Sprintf("$%d", len(args))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += ` AND t.category_id = ` + fmt.Sprintf("$%d", len(args))
	}
	if f.TripID != "" {
		args = append(args, f.TripID)
		query += ` AND t.trip_id = ` + fmt.Sprintf("$%d", len(args))
	}
	if f.Year != 0 && f.Month != 0 {
		query += ` AND t.transaction_date >= ` + next()
		args = append(args, *datePtr(core.MonthStart(f.Year, f.Month)))
		query += ` AND t.transaction_date < ` + next()
		args = append(args, *datePtr(core.NextMonthStart(f.Year, f.Month)))
	}

	query += ` ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC`
	query += ` LIMIT ` + next()
	args = append(args, f.EffectiveLimit())
	query += ` OFFSET ` + next()
	args = append(args, f.EffectiveOffset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pgTranslate("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := s.scanTransaction(rows)
		if err != nil {
			return nil, pgTranslate("scan transaction", err)
		}
		out = append(out, t)
	}
	return out, pgTranslate("list transactions", rows.Err())
}

func (s *PostgresStore) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return pgTranslate("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete transaction: %w", core.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CountTransactionsInMonth(ctx context.Context, orgID string, year int, month time.Month) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE organization_id = $1 AND transaction_date >= $2 AND transaction_date < $3`,
		orgID, *datePtr(core.MonthStart(year, month)), *datePtr(core.NextMonthStart(year, month))).
		Scan(&n)
	if err != nil {
		return 0, pgTranslate("count transactions", err)
	}
	return n, nil
}

// ---- budgets ----

func (s *PostgresStore) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO budgets
			(id, organization_id, name, period, total_amount, start_date, end_date,
			 created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.OrganizationID, b.Name, b.Period, b.TotalAmount.String(),
		*datePtr(b.StartDate), *datePtr(b.EndDate), strPtr(b.CreatedBy), b.CreatedAt, b.UpdatedAt)
	return pgTranslate("create budget", err)
}

func (s *PostgresStore) scanBudget(row pgx.Row) (core.Budget, error) {
	var (
		b         core.Budget
		amount    string
		start     time.Time
		end       time.Time
		createdBy *string
	)
	err := row.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Period, &amount,
		&start, &end, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	if b.TotalAmount, err = core.ParseMoney(amount); err != nil {
		return core.Budget{}, err
	}
	b.StartDate = core.DateOf(start)
	b.EndDate = core.DateOf(end)
	b.CreatedBy = fromPtr(createdBy)
	return b, nil
}

const pgBudgetCols = `id, organization_id, name, period, total_amount::text,
	start_date, end_date, created_by, created_at, updated_at`

func (s *PostgresStore) BudgetByID(ctx context.Context, id string) (core.Budget, error) {
	b, err := s.scanBudget(s.pool.QueryRow(ctx,
		`SELECT `+pgBudgetCols+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		return core.Budget{}, pgTranslate("get budget", err)
	}
	return b, nil
}

func (s *PostgresStore) BudgetsByOrganization(ctx context.Context, orgID string) ([]core.Budget, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pgBudgetCols+` FROM budgets
		WHERE organization_id = $1 ORDER BY start_date DESC, created_at DESC`, orgID)
	if err != nil {
		return nil, pgTranslate("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := s.scanBudget(rows)
		if err != nil {
			return nil, pgTranslate("scan budget", err)
		}
		out = append(out, b)
	}
	return out, pgTranslate("list budgets", rows.Err())
}

func (s *PostgresStore) CreateAllocation(ctx context.Context, a core.BudgetAllocation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO budget_allocations
			(id, budget_id, category_id, allocated_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.BudgetID, a.CategoryID, a.Amount.String(), a.CreatedAt, a.UpdatedAt)
	return pgTranslate("create allocation", err)
}

func (s *PostgresStore) AllocationsByBudget(ctx context.Context, budgetID string) ([]core.BudgetAllocation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, budget_id, category_id, allocated_amount::text, created_at, updated_at
		FROM budget_allocations WHERE budget_id = $1 ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, pgTranslate("list allocations", err)
	}
	defer rows.Close()

	var out []core.BudgetAllocation
	for rows.Next() {
		var (
			a      core.BudgetAllocation
			amount string
		)
		if err := rows.Scan(&a.ID, &a.BudgetID, &a.CategoryID, &amount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, pgTranslate("scan allocation", err)
		}
		if a.Amount, err = core.ParseMoney(amount); err != nil {
			return nil, pgTranslate("scan allocation", err)
		}
		out = append(out, a)
	}
	return out, pgTranslate("list allocations", rows.Err())
}

func (s *PostgresStore) DeleteAllocation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM budget_allocations WHERE id = $1`, id)
	if err != nil {
		return pgTranslate("delete allocation", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete allocation: %w", core.ErrNotFound)
	}
	return nil
}

// ---- trips ----

func (s *PostgresStore) CreateTrip(ctx context.Context, t core.Trip) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO trips
			(id, organization_id, name, description, destination, status,
			 budget_amount, start_date, end_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.OrganizationID, t.Name, t.Description, t.Destination, t.Status,
		t.BudgetAmount.String(), datePtr(t.StartDate), datePtr(t.EndDate),
		strPtr(t.CreatedBy), t.CreatedAt, t.UpdatedAt)
	return pgTranslate("create trip", err)
}

func (s *PostgresStore) scanTrip(row pgx.Row) (core.Trip, error) {
	var (
		t         core.Trip
		amount    string
		start     *time.Time
		end       *time.Time
		createdBy *string
	)
	err := row.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Description, &t.Destination,
		&t.Status, &amount, &start, &end, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Trip{}, err
	}
	if t.BudgetAmount, err = core.ParseMoney(amount); err != nil {
		return core.Trip{}, err
	}
	t.StartDate = dateFromPtr(start)
	t.EndDate = dateFromPtr(end)
	t.CreatedBy = fromPtr(createdBy)
	return t, nil
}

const pgTripCols = `id, organization_id, name, description, destination, status,
	budget_amount::text, start_date, end_date, created_by, created_at, updated_at`

func (s *PostgresStore) TripByID(ctx context.Context, id string) (core.Trip, error) {
	t, err := s.scanTrip(s.pool.QueryRow(ctx, `SELECT `+pgTripCols+` FROM trips WHERE id = $1`, id))
	if err != nil {
		return core.Trip{}, pgTranslate("get trip", err)
	}
	return t, nil
}

func (s *PostgresStore) TripsByOrganization(ctx context.Context, orgID string) ([]core.Trip, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pgTripCols+` FROM trips
		WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, pgTranslate("list trips", err)
	}
	defer rows.Close()

	var out []core.Trip
	for rows.Next() {
		t, err := s.scanTrip(rows)
		if err != nil {
			return nil, pgTranslate("scan trip", err)
		}
		out = append(out, t)
	}
	return out, pgTranslate("list trips", rows.Err())
}

func (s *PostgresStore) UpdateTrip(ctx context.Context, t core.Trip) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE trips
		SET name = $1, description = $2, destination = $3, status = $4,
		    budget_amount = $5, start_date = $6, end_date = $7, updated_at = now()
		WHERE id = $8`,
		t.Name, t.Description, t.Destination, t.Status, t.BudgetAmount.String(),
		datePtr(t.StartDate), datePtr(t.EndDate), t.ID)
	if err != nil {
		return pgTranslate("update trip", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update trip: %w", core.ErrNotFound)
	}
	return nil
}

// ---- subscriptions ----

func (s *PostgresStore) CreateSubscription(ctx context.Context, sub core.Subscription) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions
			(id, organization_id, tier, status, max_members, max_transactions_per_month,
			 current_period_start, current_period_end, trial_end, canceled_at,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sub.ID, sub.OrganizationID, sub.Tier, sub.Status, sub.MaxMembers,
		sub.MaxTransactionsPerMonth, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.TrialEnd, sub.CanceledAt, sub.CreatedAt, sub.UpdatedAt)
	return pgTranslate("create subscription", err)
}

func (s *PostgresStore) SubscriptionByOrganization(ctx context.Context, orgID string) (core.Subscription, error) {
	var sub core.Subscription
	err := s.pool.QueryRow(ctx, `
		SELECT id, organization_id, tier, status, max_members, max_transactions_per_month,
		       current_period_start, current_period_end, trial_end, canceled_at,
		       created_at, updated_at
		FROM subscriptions WHERE organization_id = $1`, orgID).
		Scan(&sub.ID, &sub.OrganizationID, &sub.Tier, &sub.Status, &sub.MaxMembers,
			&sub.MaxTransactionsPerMonth, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
			&sub.TrialEnd, &sub.CanceledAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return core.Subscription{}, pgTranslate("get subscription", err)
	}
	return sub, nil
}

func (s *PostgresStore) UpdateSubscription(ctx context.Context, sub core.Subscription) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions
		SET tier = $1, status = $2, max_members = $3, max_transactions_per_month = $4,
		    current_period_start = $5, current_period_end = $6, trial_end = $7,
		    canceled_at = $8, updated_at = now()
		WHERE id = $9`,
		sub.Tier, sub.Status, sub.MaxMembers, sub.MaxTransactionsPerMonth,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.TrialEnd, sub.CanceledAt, sub.ID)
	if err != nil {
		return pgTranslate("update subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}
	return nil
}
