package services

import (
	"context"
	"time"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
)

// HealthService reports uptime, content counts and the pricing store status
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type healthServiceImpl struct {
	started    time.Time
	trainings  TrainingService
	blog       BlogService
	pricing    PricingService
	dbEnabled  bool
	pingBudget time.Duration
	now        func() time.Time
}

// NewHealthService creates a new HealthService. dbEnabled tells whether
// pricing is backed by Postgres.
func NewHealthService(trainings TrainingService, blog BlogService, pricing PricingService, dbEnabled bool) HealthService {
	return &healthServiceImpl{
		started:    time.Now(),
		trainings:  trainings,
		blog:       blog,
		pricing:    pricing,
		dbEnabled:  dbEnabled,
		pingBudget: 2 * time.Second,
		now:        time.Now,
	}
}

func (s *healthServiceImpl) Check(ctx context.Context) dto.HealthResponse {
	now := s.now()
	uptime := now.Sub(s.started)

	resp := dto.HealthResponse{
		Status:        dto.HealthStatusHealthy,
		Timestamp:     now.UTC(),
		Uptime:        helpers.FormatUptime(uptime),
		UptimeSeconds: int64(uptime / time.Second),
		Trainings:     s.trainings.Count(),
		BlogPosts:     s.blog.Count(),
		Database:      dto.DatabaseHealth{Enabled: s.dbEnabled, Status: "disabled"},
	}
	if !s.dbEnabled {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, s.pingBudget)
	defer cancel()
	if err := s.pricing.Ping(ctx); err != nil {
		resp.Status = dto.HealthStatusDegraded
		resp.Database.Status = "down"
		resp.Database.Error = err.Error()
		return resp
	}
	resp.Database.Status = "up"
	return resp
}
