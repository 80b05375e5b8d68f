package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/app/repositories"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/validation"
)

// PricingService resolves the price a visitor sees: an administrator
// override when one is stored, the catalog price otherwise, less the
// site-wide promotion while it runs.
type PricingService interface {
	ListPrices(ctx context.Context) ([]models.EffectivePrice, error)
	GetPrice(ctx context.Context, slug string) (*models.EffectivePrice, error)
	UpdatePrice(ctx context.Context, slug string, amount float64, currency string) (*models.EffectivePrice, error)
	ResetPrice(ctx context.Context, slug string) (*models.EffectivePrice, error)
	GetPromotion(ctx context.Context) (*models.Promotion, error)
	UpdatePromotion(ctx context.Context, input PromotionInput) (*models.Promotion, error)
	Ping(ctx context.Context) error
}

// PromotionInput carries an administrator's promotion change
type PromotionInput struct {
	Percentage int
	Active     bool
	Reason     string
	ValidUntil time.Time
}

type pricingServiceImpl struct {
	trainings *registry.TrainingRegistry
	repo      repositories.PricingRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPricingService creates a new pricing service instance
func NewPricingService(trainings *registry.TrainingRegistry, repo repositories.PricingRepository, logger zerolog.Logger) PricingService {
	return &pricingServiceImpl{
		trainings: trainings,
		repo:      repo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CatalogPrices returns one non-override row per catalog course, used to
// seed a fresh store.
func CatalogPrices(trainings *registry.TrainingRegistry) []models.CoursePrice {
	all := trainings.GetAllTrainings()
	seen := make(map[string]bool, len(all))
	prices := make([]models.CoursePrice, 0, len(all))
	for _, meta := range all {
		if seen[meta.Slug] {
			continue
		}
		seen[meta.Slug] = true
		prices = append(prices, models.CoursePrice{
			Slug:     meta.Slug,
			Amount:   meta.Price.Amount,
			Currency: meta.Price.Currency,
		})
	}
	return prices
}

func effective(meta models.CourseMetadata, stored *models.CoursePrice, promo *models.Promotion, now time.Time) models.EffectivePrice {
	p := models.EffectivePrice{
		Slug:     meta.Slug,
		Title:    meta.Title,
		Amount:   meta.Price.Amount,
		Currency: meta.Price.Currency,
		Source:   models.PriceSourceCatalog,
	}
	if stored != nil && stored.Override {
		at := stored.UpdatedAt
		p.Amount = stored.Amount
		p.Currency = stored.Currency
		p.Source = models.PriceSourceOverride
		p.UpdatedAt = &at
	}

	p.FinalAmount = p.Amount
	if !promo.AppliesAt(now) {
		return p
	}
	if final := discounted(p.Amount, promo.Percentage); final < p.Amount {
		p.FinalAmount = final
		p.HasDiscount = true
		p.Discount = &models.Discount{
			Percentage: promo.Percentage,
			Reason:     promo.Reason,
			ValidUntil: promo.ValidUntil,
			Amount:     p.Amount - p.FinalAmount,
		}
	}
	return p
}

// discounted rounds to whole currency units
func discounted(amount float64, percentage int) float64 {
	return math.Round(amount * float64(100-percentage) / 100)
}

// promotion returns the stored promotion, or nil when none is configured
func (s *pricingServiceImpl) promotion(ctx context.Context) (*models.Promotion, error) {
	promo, err := s.repo.GetPromotion(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoPromotion) {
			return nil, nil
		}
		return nil, err
	}
	return promo, nil
}

func (s *pricingServiceImpl) course(slug string) (models.CourseMetadata, error) {
	meta, ok := s.trainings.GetTrainingBySlug(slug)
	if !ok {
		return models.CourseMetadata{}, fmt.Errorf("%w: %q", apperrors.ErrTrainingNotFound, slug)
	}
	return meta, nil
}

// ListPrices returns the effective price of every catalog course in catalog order
func (s *pricingServiceImpl) ListPrices(ctx context.Context) ([]models.EffectivePrice, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]*models.CoursePrice, len(stored))
	for i := range stored {
		bySlug[stored[i].Slug] = &stored[i]
	}

	promo, err := s.promotion(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	all := s.trainings.GetAllTrainings()
	prices := make([]models.EffectivePrice, 0, len(all))
	for _, meta := range all {
		prices = append(prices, effective(meta, bySlug[meta.Slug], promo, now))
	}
	return prices, nil
}

func (s *pricingServiceImpl) GetPrice(ctx context.Context, slug string) (*models.EffectivePrice, error) {
	meta, err := s.course(slug)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Get(ctx, slug)
	if err != nil && !errors.Is(err, apperrors.ErrPriceNotFound) {
		return nil, err
	}
	promo, err := s.promotion(ctx)
	if err != nil {
		return nil, err
	}
	p := effective(meta, stored, promo, s.now())
	return &p, nil
}

func (s *pricingServiceImpl) UpdatePrice(ctx context.Context, slug string, amount float64, currency string) (*models.EffectivePrice, error) {
	meta, err := s.course(slug)
	if err != nil {
		return nil, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidationFailed)
	}
	if !validation.IsCurrency(currency) {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", apperrors.ErrValidationFailed)
	}

	stored, err := s.repo.Upsert(ctx, models.CoursePrice{
		Slug:      slug,
		Amount:    amount,
		Currency:  currency,
		Override:  true,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("slug", slug).Float64("amount", amount).Str("currency", currency).Msg("Price override stored")
	promo, err := s.promotion(ctx)
	if err != nil {
		return nil, err
	}
	p := effective(meta, stored, promo, s.now())
	return &p, nil
}

// ResetPrice drops a stored override. Resetting a course without one is a no-op.
func (s *pricingServiceImpl) ResetPrice(ctx context.Context, slug string) (*models.EffectivePrice, error) {
	meta, err := s.course(slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, slug); err != nil && !errors.Is(err, apperrors.ErrPriceNotFound) {
		return nil, err
	}

	s.logger.Info().Str("slug", slug).Msg("Price override removed")
	promo, err := s.promotion(ctx)
	if err != nil {
		return nil, err
	}
	p := effective(meta, nil, promo, s.now())
	return &p, nil
}

// GetPromotion returns apperrors.ErrNoPromotion when none was ever stored
func (s *pricingServiceImpl) GetPromotion(ctx context.Context) (*models.Promotion, error) {
	return s.repo.GetPromotion(ctx)
}

func (s *pricingServiceImpl) UpdatePromotion(ctx context.Context, input PromotionInput) (*models.Promotion, error) {
	promo, err := NewPromotion(input)
	if err != nil {
		return nil, err
	}
	promo.UpdatedAt = s.now()

	stored, err := s.repo.SavePromotion(ctx, promo)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("percentage", stored.Percentage).
		Bool("active", stored.Active).
		Time("validUntil", stored.ValidUntil).
		Msg("Promotion updated")
	return stored, nil
}

// NewPromotion validates input. An active promotion needs an end date.
func NewPromotion(input PromotionInput) (models.Promotion, error) {
	if input.Percentage < 0 || input.Percentage > 100 {
		return models.Promotion{}, fmt.Errorf("%w: percentage must be between 0 and 100", apperrors.ErrValidationFailed)
	}
	if input.Active && input.ValidUntil.IsZero() {
		return models.Promotion{}, fmt.Errorf("%w: an active promotion needs validUntil", apperrors.ErrValidationFailed)
	}
	return models.Promotion{
		Percentage: input.Percentage,
		Active:     input.Active,
		Reason:     strings.TrimSpace(input.Reason),
		ValidUntil: input.ValidUntil.UTC(),
	}, nil
}

func (s *pricingServiceImpl) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
