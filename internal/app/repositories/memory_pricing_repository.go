package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
)

// MemoryPricingRepository keeps prices in process memory. It backs the
// service when no database is configured.
type MemoryPricingRepository struct {
	mu     sync.RWMutex
	prices map[string]models.CoursePrice
	promo  *models.Promotion
	now    func() time.Time
}

// NewMemoryPricingRepository creates an empty in-memory store
func NewMemoryPricingRepository() *MemoryPricingRepository {
	return &MemoryPricingRepository{
		prices: make(map[string]models.CoursePrice),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryPricingRepository) List(_ context.Context) ([]models.CoursePrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CoursePrice, 0, len(s.prices))
	for _, p := range s.prices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *MemoryPricingRepository) Get(_ context.Context, slug string) (*models.CoursePrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prices[slug]
	if !ok {
		return nil, apperrors.ErrPriceNotFound
	}
	return &p, nil
}

func (s *MemoryPricingRepository) Upsert(_ context.Context, price models.CoursePrice) (*models.CoursePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price.UpdatedAt.IsZero() {
		price.UpdatedAt = s.now()
	}
	s.prices[price.Slug] = price
	return &price, nil
}

func (s *MemoryPricingRepository) Delete(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prices[slug]; !ok {
		return apperrors.ErrPriceNotFound
	}
	delete(s.prices, slug)
	return nil
}

func (s *MemoryPricingRepository) Seed(_ context.Context, prices []models.CoursePrice) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, p := range prices {
		if _, exists := s.prices[p.Slug]; exists {
			continue
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = s.now()
		}
		s.prices[p.Slug] = p
		added++
	}
	return added, nil
}

func (s *MemoryPricingRepository) GetPromotion(_ context.Context) (*models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.promo == nil {
		return nil, apperrors.ErrNoPromotion
	}
	p := *s.promo
	return &p, nil
}

func (s *MemoryPricingRepository) SavePromotion(_ context.Context, promo models.Promotion) (*models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if promo.UpdatedAt.IsZero() {
		promo.UpdatedAt = s.now()
	}
	s.promo = &promo
	out := promo
	return &out, nil
}

func (s *MemoryPricingRepository) SeedPromotion(_ context.Context, promo models.Promotion) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.promo != nil {
		return false, nil
	}
	if promo.UpdatedAt.IsZero() {
		promo.UpdatedAt = s.now()
	}
	s.promo = &promo
	return true, nil
}

func (s *MemoryPricingRepository) Ping(context.Context) error {
	return nil
}
