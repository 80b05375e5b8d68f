package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
)

var (
	_ PricingRepository = (*PostgresPricingRepository)(nil)
	_ PricingRepository = (*MemoryPricingRepository)(nil)
)

func TestPriceQueryBuilders(t *testing.T) {
	sb := newStatementBuilder()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := buildGetPrice(sb, "azure-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, "SELECT slug, amount, currency, override, updated_at FROM course_prices WHERE slug = $1 LIMIT 1", sql)
	assert.Equal(t, []interface{}{"azure-fundamentals"}, args)

	sql, _, err = buildListPrices(sb)
	require.NoError(t, err)
	assert.Equal(t, "SELECT slug, amount, currency, override, updated_at FROM course_prices ORDER BY slug ASC", sql)

	sql, args, err = buildUpsertPrice(sb, models.CoursePrice{Slug: "a", Amount: 790, Currency: "EUR", Override: true, UpdatedAt: at})
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO course_prices (slug,amount,currency,override,updated_at) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, sql, "ON CONFLICT (slug) DO UPDATE SET")
	assert.Equal(t, []interface{}{"a", 790.0, "EUR", true, at}, args)

	sql, args, err = buildDeletePrice(sb, "a")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM course_prices WHERE slug = $1", sql)
	assert.Equal(t, []interface{}{"a"}, args)

	sql, args, err = buildSeedPrices(sb, []models.CoursePrice{
		{Slug: "a", Amount: 1, Currency: "EUR", UpdatedAt: at},
		{Slug: "b", Amount: 2, Currency: "EUR", UpdatedAt: at},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO course_prices (slug,amount,currency,override,updated_at) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10) ON CONFLICT (slug) DO NOTHING", sql)
	assert.Len(t, args, 10)
}

func TestMemoryPricingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPricingRepository()

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	added, err := repo.Seed(ctx, []models.CoursePrice{{Slug: "b", Amount: 2, Currency: "EUR"}, {Slug: "a", Amount: 1, Currency: "EUR"}})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	stored, err := repo.Upsert(ctx, models.CoursePrice{Slug: "a", Amount: 5, Currency: "USD", Override: true})
	require.NoError(t, err)
	assert.False(t, stored.UpdatedAt.IsZero())

	added, err = repo.Seed(ctx, []models.CoursePrice{{Slug: "a", Amount: 1, Currency: "EUR"}})
	require.NoError(t, err)
	assert.Zero(t, added, "seeding keeps existing rows")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Slug)
	assert.Equal(t, 5.0, list[0].Amount)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), apperrors.ErrPriceNotFound)
	assert.NoError(t, repo.Ping(ctx))
}

func TestMemoryPricingRepositoryConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPricingRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			_, _ = repo.Upsert(ctx, models.CoursePrice{Slug: "a", Amount: amount, Currency: "EUR", Override: true})
			_, _ = repo.List(ctx)
		}(float64(i + 1))
	}
	wg.Wait()

	p, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Positive(t, p.Amount)
}

func TestNewPricingRepositoryWithoutPool(t *testing.T) {
	_, ok := NewPricingRepository(nil).(*MemoryPricingRepository)
	assert.True(t, ok)
}

func TestWrapQueryError(t *testing.T) {
	err := wrapQueryError("storing price", context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	err = wrapQueryError("storing price", &pgconn.PgError{Code: "23514"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = wrapQueryError("storing price", &pgconn.PgError{Code: "42P01"})
	assert.NotErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "storing price")
}

func TestPromotionQueryBuilders(t *testing.T) {
	sb := newStatementBuilder()
	until := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	promo := models.Promotion{Percentage: 30, Active: true, Reason: "Launch", ValidUntil: until, UpdatedAt: until}

	sql, args, err := buildGetPromotion(sb)
	require.NoError(t, err)
	assert.Equal(t, "SELECT percentage, active, reason, valid_until, updated_at FROM promotions WHERE id = $1 LIMIT 1", sql)
	assert.Equal(t, []interface{}{"current"}, args)

	sql, args, err = buildSavePromotion(sb, promo, true)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO promotions (id,percentage,active,reason,valid_until,updated_at) VALUES ($1,$2,$3,$4,$5,$6)")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET")
	assert.Equal(t, []interface{}{"current", 30, true, "Launch", until, until}, args)

	sql, _, err = buildSavePromotion(sb, promo, false)
	require.NoError(t, err)
	assert.Contains(t, sql, "ON CONFLICT (id) DO NOTHING RETURNING")
}

func TestMemoryPromotionStore(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPricingRepository()
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := repo.GetPromotion(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoPromotion)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	seeded, err := repo.SeedPromotion(ctx, models.Promotion{Percentage: 30, Active: true, ValidUntil: until})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.SeedPromotion(ctx, models.Promotion{Percentage: 10})
	require.NoError(t, err)
	assert.False(t, seeded, "seeding keeps the stored promotion")

	saved, err := repo.SavePromotion(ctx, models.Promotion{Percentage: 15, Reason: "Spring", ValidUntil: until})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	// Callers cannot mutate the stored value through the returned pointer
	saved.Percentage = 99
	got, err := repo.GetPromotion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Percentage)
	assert.Equal(t, "Spring", got.Reason)
	assert.False(t, got.Active)
}
