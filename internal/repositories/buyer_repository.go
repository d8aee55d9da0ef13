package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lead-backend/internal/models"
)

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
		budget_min, budget_max, timeline, source, status, notes, tags, owner_id,
		created_at, updated_at`

type BuyerRepository struct {
	DB DBTX
}

func NewBuyerRepository(db DBTX) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *BuyerRepository) WithTx(tx pgx.Tx) *BuyerRepository {
	return &BuyerRepository{DB: tx}
}

func (r *BuyerRepository) Create(ctx context.Context, b *models.Buyer) error {
	query := `
		INSERT INTO buyers (
			full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, status, notes, tags, owner_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		b.FullName, b.Email, b.Phone, b.City, b.PropertyType, b.BHK, b.Purpose,
		b.BudgetMin, b.BudgetMax, b.Timeline, b.Source, b.Status, b.Notes,
		b.Tags, b.OwnerID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BuyerRepository) Get(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+buyerColumns+` FROM buyers WHERE id=$1`, id)

	b, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrBuyerNotFound
	}
	return b, err
}

// Update writes the full field set and refreshes updated_at server-side on
// every call.
func (r *BuyerRepository) Update(ctx context.Context, b *models.Buyer) error {
	query := `
		UPDATE buyers SET
			full_name=$1, email=$2, phone=$3, city=$4, property_type=$5, bhk=$6,
			purpose=$7, budget_min=$8, budget_max=$9, timeline=$10, source=$11,
			status=$12, notes=$13, tags=$14, updated_at=NOW()
		WHERE id=$15
		RETURNING updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		b.FullName, b.Email, b.Phone, b.City, b.PropertyType, b.BHK, b.Purpose,
		b.BudgetMin, b.BudgetMax, b.Timeline, b.Source, b.Status, b.Notes,
		b.Tags, b.ID,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrBuyerNotFound
	}
	return err
}

// ListFilter narrows and pages the buyer list. Zero values mean "no filter".
type ListFilter struct {
	Search       string
	City         string
	PropertyType string
	Status       string
	Timeline     string
	SortAsc      bool
	Page         int
	PageSize     int
}

// buildWhere assembles the WHERE clause shared by List, Count and export.
func buildWhere(f ListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(full_name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if f.PropertyType != "" {
		args = append(args, f.PropertyType)
		conds = append(conds, fmt.Sprintf("property_type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Timeline != "" {
		args = append(args, f.Timeline)
		conds = append(conds, fmt.Sprintf("timeline = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of buyers plus the total row count for the filter.
func (r *BuyerRepository) List(ctx context.Context, f ListFilter) ([]*models.Buyer, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM buyers"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY updated_at DESC"
	if f.SortAsc {
		order = " ORDER BY updated_at ASC"
	}

	query := "SELECT " + buyerColumns + " FROM buyers" + where + order
	if f.PageSize > 0 {
		args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, 0, err
		}
		buyers = append(buyers, b)
	}
	return buyers, total, rows.Err()
}

// ListAll returns every buyer matching the filter, in sort order, unpaged.
// Used by the CSV export.
func (r *BuyerRepository) ListAll(ctx context.Context, f ListFilter) ([]*models.Buyer, error) {
	f.PageSize = 0
	buyers, _, err := r.List(ctx, f)
	return buyers, err
}

// DashboardCounts holds the headline numbers for the dashboard cards.
type DashboardCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Converted int `json:"converted"`
	Dropped   int `json:"dropped"`
}

func (r *BuyerRepository) CountDashboard(ctx context.Context) (*DashboardCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status NOT IN ('Converted', 'Dropped')),
			COUNT(*) FILTER (WHERE status = 'Converted'),
			COUNT(*) FILTER (WHERE status = 'Dropped')
		FROM buyers
	`

	var c DashboardCounts
	err := r.DB.QueryRow(ctx, query).Scan(&c.Total, &c.Active, &c.Converted, &c.Dropped)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// groupColumns whitelists the columns the dashboard may group by; anything
// else would be an injection vector since the column is interpolated.
var groupColumns = map[string]bool{
	"status": true,
	"source": true,
	"city":   true,
}

// GroupCount returns per-value lead counts for one of the whitelisted
// columns.
func (r *BuyerRepository) GroupCount(ctx context.Context, column string) (map[string]int, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("unsupported group column: %s", column)
	}

	rows, err := r.DB.Query(ctx,
		fmt.Sprintf("SELECT %s, COUNT(*) FROM buyers GROUP BY %s", column, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		counts[value] = count
	}
	return counts, rows.Err()
}

func scanBuyer(row pgx.Row) (*models.Buyer, error) {
	var b models.Buyer
	err := row.Scan(
		&b.ID, &b.FullName, &b.Email, &b.Phone, &b.City, &b.PropertyType,
		&b.BHK, &b.Purpose, &b.BudgetMin, &b.BudgetMax, &b.Timeline, &b.Source,
		&b.Status, &b.Notes, &b.Tags, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}
