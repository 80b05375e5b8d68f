package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/dberrors"
	"github.com/cloudevolvers/catalog/internal/pkg/logger"
)

const (
	coursePricesTable = "course_prices"
	promotionsTable   = "promotions"
	// promotionKey is the id of the single promotion row
	promotionKey = "current"
)

var (
	priceColumns     = []string{"slug", "amount", "currency", "override", "updated_at"}
	promotionColumns = []string{"percentage", "active", "reason", "valid_until", "updated_at"}
)

// PricingRepository stores course prices keyed by slug
type PricingRepository interface {
	// List returns every stored price ordered by slug
	List(ctx context.Context) ([]models.CoursePrice, error)
	// Get returns apperrors.ErrPriceNotFound when slug has no row
	Get(ctx context.Context, slug string) (*models.CoursePrice, error)
	// Upsert inserts or replaces the row of price.Slug
	Upsert(ctx context.Context, price models.CoursePrice) (*models.CoursePrice, error)
	// Delete returns apperrors.ErrPriceNotFound when slug has no row
	Delete(ctx context.Context, slug string) error
	// Seed inserts the rows whose slug is not stored yet and reports how many were added
	Seed(ctx context.Context, prices []models.CoursePrice) (int, error)
	// GetPromotion returns apperrors.ErrNoPromotion when none is stored
	GetPromotion(ctx context.Context) (*models.Promotion, error)
	// SavePromotion replaces the stored promotion
	SavePromotion(ctx context.Context, promo models.Promotion) (*models.Promotion, error)
	// SeedPromotion stores promo only when no promotion exists and reports whether it did
	SeedPromotion(ctx context.Context, promo models.Promotion) (bool, error)
	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}

// PostgresPricingRepository handles course price database operations
type PostgresPricingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresPricingRepository creates a new PostgresPricingRepository
func NewPostgresPricingRepository(db *pgxpool.Pool) *PostgresPricingRepository {
	return &PostgresPricingRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func buildListPrices(sb squirrel.StatementBuilderType) (string, []interface{}, error) {
	return sb.Select(priceColumns...).
		From(coursePricesTable).
		OrderBy("slug ASC").
		ToSql()
}

func buildGetPrice(sb squirrel.StatementBuilderType, slug string) (string, []interface{}, error) {
	return sb.Select(priceColumns...).
		From(coursePricesTable).
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()
}

func buildUpsertPrice(sb squirrel.StatementBuilderType, p models.CoursePrice) (string, []interface{}, error) {
	return sb.Insert(coursePricesTable).
		Columns(priceColumns...).
		Values(p.Slug, p.Amount, p.Currency, p.Override, p.UpdatedAt).
		Suffix("ON CONFLICT (slug) DO UPDATE SET amount = EXCLUDED.amount, currency = EXCLUDED.currency, " +
			"override = EXCLUDED.override, updated_at = EXCLUDED.updated_at RETURNING slug, amount, currency, override, updated_at").
		ToSql()
}

func buildDeletePrice(sb squirrel.StatementBuilderType, slug string) (string, []interface{}, error) {
	return sb.Delete(coursePricesTable).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
}

func buildSeedPrices(sb squirrel.StatementBuilderType, prices []models.CoursePrice) (string, []interface{}, error) {
	q := sb.Insert(coursePricesTable).Columns(priceColumns...)
	for _, p := range prices {
		q = q.Values(p.Slug, p.Amount, p.Currency, p.Override, p.UpdatedAt)
	}
	return q.Suffix("ON CONFLICT (slug) DO NOTHING").ToSql()
}

func buildGetPromotion(sb squirrel.StatementBuilderType) (string, []interface{}, error) {
	return sb.Select(promotionColumns...).
		From(promotionsTable).
		Where(squirrel.Eq{"id": promotionKey}).
		Limit(1).
		ToSql()
}

func buildSavePromotion(sb squirrel.StatementBuilderType, p models.Promotion, replace bool) (string, []interface{}, error) {
	conflict := "ON CONFLICT (id) DO NOTHING"
	if replace {
		conflict = "ON CONFLICT (id) DO UPDATE SET percentage = EXCLUDED.percentage, active = EXCLUDED.active, " +
			"reason = EXCLUDED.reason, valid_until = EXCLUDED.valid_until, updated_at = EXCLUDED.updated_at"
	}
	return sb.Insert(promotionsTable).
		Columns(append([]string{"id"}, promotionColumns...)...).
		Values(promotionKey, p.Percentage, p.Active, p.Reason, p.ValidUntil, p.UpdatedAt).
		Suffix(conflict + " RETURNING percentage, active, reason, valid_until, updated_at").
		ToSql()
}

func wrapQueryError(op string, err error) error {
	switch {
	case dberrors.IsUnavailable(err):
		return fmt.Errorf("%w: %s: %v", apperrors.ErrStorageUnavailable, op, err)
	case dberrors.IsCheckViolation(err):
		return fmt.Errorf("%w: %s: %v", apperrors.ErrValidationFailed, op, err)
	}
	return fmt.Errorf("error %s: %w", op, err)
}

func scanPrice(row pgx.Row) (*models.CoursePrice, error) {
	p := &models.CoursePrice{}
	if err := row.Scan(&p.Slug, &p.Amount, &p.Currency, &p.Override, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanPromotion(row pgx.Row) (*models.Promotion, error) {
	p := &models.Promotion{}
	if err := row.Scan(&p.Percentage, &p.Active, &p.Reason, &p.ValidUntil, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ValidUntil = p.ValidUntil.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// List retrieves all stored prices
func (r *PostgresPricingRepository) List(ctx context.Context) ([]models.CoursePrice, error) {
	sql, args, err := buildListPrices(r.sb)
	if err != nil {
		return nil, fmt.Errorf("failed to build list prices query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list prices query")
		return nil, wrapQueryError("querying prices", err)
	}
	defer rows.Close()

	prices := []models.CoursePrice{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning price row: %w", err)
		}
		prices = append(prices, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price rows: %w", err)
	}

	return prices, nil
}

// Get retrieves the stored price of a course
func (r *PostgresPricingRepository) Get(ctx context.Context, slug string) (*models.CoursePrice, error) {
	sql, args, err := buildGetPrice(r.sb, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to build get price query: %w", err)
	}

	p, err := scanPrice(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPriceNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Error scanning price row")
		return nil, wrapQueryError("getting price", err)
	}
	return p, nil
}

// Upsert stores price, replacing an existing row
func (r *PostgresPricingRepository) Upsert(ctx context.Context, price models.CoursePrice) (*models.CoursePrice, error) {
	if price.UpdatedAt.IsZero() {
		price.UpdatedAt = time.Now().UTC()
	}

	sql, args, err := buildUpsertPrice(r.sb, price)
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert price query: %w", err)
	}

	p, err := scanPrice(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Str("slug", price.Slug).Msg("Error executing upsert price query")
		return nil, wrapQueryError("storing price", err)
	}
	return p, nil
}

// Delete removes the stored price of a course
func (r *PostgresPricingRepository) Delete(ctx context.Context, slug string) error {
	sql, args, err := buildDeletePrice(r.sb, slug)
	if err != nil {
		return fmt.Errorf("failed to build delete price query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("slug", slug).Msg("Error executing delete price query")
		return wrapQueryError("deleting price", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPriceNotFound
	}
	return nil
}

// Seed inserts missing rows in one statement
func (r *PostgresPricingRepository) Seed(ctx context.Context, prices []models.CoursePrice) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	sql, args, err := buildSeedPrices(r.sb, prices)
	if err != nil {
		return 0, fmt.Errorf("failed to build seed prices query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, wrapQueryError("seeding prices", err)
	}
	return int(tag.RowsAffected()), nil
}

// GetPromotion retrieves the current promotion
func (r *PostgresPricingRepository) GetPromotion(ctx context.Context) (*models.Promotion, error) {
	sql, args, err := buildGetPromotion(r.sb)
	if err != nil {
		return nil, fmt.Errorf("failed to build get promotion query: %w", err)
	}

	p, err := scanPromotion(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoPromotion
		}
		logger.Error().Err(err).Msg("Error scanning promotion row")
		return nil, wrapQueryError("getting promotion", err)
	}
	return p, nil
}

// SavePromotion stores promo as the current promotion
func (r *PostgresPricingRepository) SavePromotion(ctx context.Context, promo models.Promotion) (*models.Promotion, error) {
	if promo.UpdatedAt.IsZero() {
		promo.UpdatedAt = time.Now().UTC()
	}

	sql, args, err := buildSavePromotion(r.sb, promo, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build save promotion query: %w", err)
	}

	p, err := scanPromotion(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing save promotion query")
		return nil, wrapQueryError("storing promotion", err)
	}
	return p, nil
}

// SeedPromotion inserts promo unless a promotion row exists
func (r *PostgresPricingRepository) SeedPromotion(ctx context.Context, promo models.Promotion) (bool, error) {
	if promo.UpdatedAt.IsZero() {
		promo.UpdatedAt = time.Now().UTC()
	}

	sql, args, err := buildSavePromotion(r.sb, promo, false)
	if err != nil {
		return false, fmt.Errorf("failed to build seed promotion query: %w", err)
	}

	// RETURNING yields no row when the insert was skipped
	if _, err := scanPromotion(r.db.QueryRow(ctx, sql, args...)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, wrapQueryError("seeding promotion", err)
	}
	return true, nil
}

// Ping checks the connection pool
func (r *PostgresPricingRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
