package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/app/repositories"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/config"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
)

// CoursePrices stores the catalog price of every course that has no row yet.
// Existing rows, overrides included, are left untouched.
func CoursePrices(ctx context.Context, repo repositories.PricingRepository, trainings *registry.TrainingRegistry, lgr zerolog.Logger) (int, error) {
	prices := services.CatalogPrices(trainings)
	lgr.Info().Int("courses", len(prices)).Msg("Checking/Creating default course prices...")

	added, err := repo.Seed(ctx, prices)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding course prices")
		return 0, fmt.Errorf("seed course prices: %w", err)
	}

	lgr.Info().Int("added", added).Int("existing", len(prices)-added).Msg("Course prices seeded")
	return added, nil
}

// Promotion stores the configured promotion unless one already exists, so an
// administrator's change survives restarts. A zero percentage seeds nothing.
func Promotion(ctx context.Context, repo repositories.PricingRepository, cfg *config.Config, lgr zerolog.Logger) (bool, error) {
	if cfg.Promotion.Percentage == 0 {
		lgr.Debug().Msg("No promotion configured")
		return false, nil
	}

	var until time.Time
	if cfg.Promotion.ValidUntil != "" {
		t, err := helpers.ParseDeadline(cfg.Promotion.ValidUntil)
		if err != nil {
			return false, fmt.Errorf("seed promotion: %w", err)
		}
		until = t
	}

	promo, err := services.NewPromotion(services.PromotionInput{
		Percentage: cfg.Promotion.Percentage,
		Active:     cfg.Promotion.Active,
		Reason:     cfg.Promotion.Reason,
		ValidUntil: until,
	})
	if err != nil {
		return false, fmt.Errorf("seed promotion: %w", err)
	}

	added, err := repo.SeedPromotion(ctx, promo)
	if err != nil {
		lgr.Error().Err(err).Msg("Error seeding promotion")
		return false, fmt.Errorf("seed promotion: %w", err)
	}

	if added {
		lgr.Info().Int("percentage", promo.Percentage).Bool("active", promo.Active).Msg("Promotion seeded")
	} else {
		lgr.Info().Msg("Promotion already stored, keeping it")
	}
	return added, nil
}
