package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/app/repositories"
	"github.com/cloudevolvers/catalog/internal/config"
	"github.com/cloudevolvers/catalog/internal/content"
)

func TestCoursePricesKeepsOverrides(t *testing.T) {
	ctx := context.Background()
	trainings, err := registry.LoadTrainings(content.FS())
	require.NoError(t, err)

	repo := repositories.NewMemoryPricingRepository()
	_, err = repo.Upsert(ctx, models.CoursePrice{Slug: "azure-fundamentals", Amount: 650, Currency: "EUR", Override: true})
	require.NoError(t, err)

	added, err := CoursePrices(ctx, repo, trainings, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, trainings.Len()-1, added)

	stored, err := repo.Get(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.True(t, stored.Override)
	assert.Equal(t, 650.0, stored.Amount)

	again, err := CoursePrices(ctx, repo, trainings, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestPromotionSeedsOnce(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryPricingRepository()

	cfg := &config.Config{}
	added, err := Promotion(ctx, repo, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, added, "zero percentage seeds nothing")

	cfg.Promotion.Percentage = 30
	cfg.Promotion.Active = true
	cfg.Promotion.Reason = "New Company Launch Special"
	cfg.Promotion.ValidUntil = "2025-12-31"
	added, err = Promotion(ctx, repo, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, added)

	promo, err := repo.GetPromotion(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), promo.ValidUntil)

	_, err = repo.SavePromotion(ctx, models.Promotion{Percentage: 10, ValidUntil: promo.ValidUntil})
	require.NoError(t, err)
	added, err = Promotion(ctx, repo, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, added)

	promo, err = repo.GetPromotion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, promo.Percentage, "stored promotion is kept")
}

func TestPromotionRejectsBadDeadline(t *testing.T) {
	cfg := &config.Config{}
	cfg.Promotion.Percentage = 30
	cfg.Promotion.ValidUntil = "soon"

	_, err := Promotion(context.Background(), repositories.NewMemoryPricingRepository(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
