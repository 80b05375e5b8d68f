package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/app/repositories"
	"github.com/cloudevolvers/catalog/internal/content"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/auth"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

func loadRegistries(t *testing.T) (*registry.TrainingRegistry, *registry.BlogRegistry) {
	t.Helper()
	trainings, err := registry.LoadTrainings(content.FS())
	require.NoError(t, err)
	blog, err := registry.LoadBlog(content.FS())
	require.NoError(t, err)
	return trainings, blog
}

func slugs(list []models.CourseMetadata) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Slug)
	}
	return out
}

func TestListTrainingsCombinesFilters(t *testing.T) {
	trainings, _ := loadRegistries(t)
	svc := NewTrainingService(trainings)
	ctx := context.Background()

	assert.Len(t, svc.ListTrainings(ctx, TrainingQuery{}), 6)
	assert.Len(t, svc.ListTrainings(ctx, TrainingQuery{Featured: true}), 4)
	assert.Equal(t, []string{"azure-fundamentals", "azure-administrator"},
		slugs(svc.ListTrainings(ctx, TrainingQuery{Featured: true, Category: "azure"})))
	assert.Equal(t, []string{"azure-security-engineer"},
		slugs(svc.ListTrainings(ctx, TrainingQuery{Search: "AZ-500", Category: "Security"})))
	assert.Empty(t, svc.ListTrainings(ctx, TrainingQuery{Search: "AZ-500", Category: "Azure"}))
	assert.NotNil(t, svc.ListTrainings(ctx, TrainingQuery{Category: "Dynamics"}))
}

func TestListTrainingsByTag(t *testing.T) {
	trainings, _ := loadRegistries(t)
	svc := NewTrainingService(trainings)
	ctx := context.Background()

	assert.Equal(t, []string{"azure-fundamentals", "microsoft-365-fundamentals"},
		slugs(svc.ListTrainings(ctx, TrainingQuery{Tag: "Fundamentals"})))
	assert.Equal(t, []string{"azure-fundamentals"},
		slugs(svc.ListTrainings(ctx, TrainingQuery{Tag: "Fundamentals", Featured: true})))
	assert.Equal(t, []string{"azure-security-engineer"},
		slugs(svc.ListTrainings(ctx, TrainingQuery{Tag: "AZ-500", Search: "security"})))
	assert.Empty(t, svc.ListTrainings(ctx, TrainingQuery{Tag: "fundamentals"}), "tags match exactly")
}

func TestGetTrainingAndContent(t *testing.T) {
	trainings, _ := loadRegistries(t)
	svc := NewTrainingService(trainings)
	ctx := context.Background()

	meta, err := svc.GetTraining(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, "Azure", meta.Category)

	_, err = svc.GetTraining(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrTrainingNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	c, err := svc.GetContent(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.Contains(t, c.HTML, "Course Overview")

	_, err = svc.GetContent(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
}

func TestGetContentPropagatesLoaderError(t *testing.T) {
	boom := errors.New("disk gone")
	trainings := registry.NewTrainingRegistry(
		map[string]registry.ContentLoader{"x": registry.Lazy("x", func() ([]byte, error) { return nil, boom })},
		[]registry.Registration{registry.Register(&models.CourseMetadata{Slug: "x"})},
	)

	_, err := NewTrainingService(trainings).GetContent(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBlogServiceLocalizes(t *testing.T) {
	_, blog := loadRegistries(t)
	svc := NewBlogService(blog)
	ctx := context.Background()

	nl := svc.ListPosts(ctx, BlogQuery{}, i18n.Dutch)
	require.Len(t, nl, 5)
	assert.Equal(t, "aks-network-policies", nl[0].ID)
	assert.Equal(t, i18n.Dutch, nl[0].Locale)

	assert.Len(t, svc.ListPosts(ctx, BlogQuery{Tag: "Security"}, i18n.English), 3)
	assert.Len(t, svc.ListPosts(ctx, BlogQuery{Category: "Beveiliging"}, i18n.Dutch), 2)
	assert.Len(t, svc.ListPosts(ctx, BlogQuery{Category: "Security", Tag: "AKS"}, i18n.English), 1)

	post, err := svc.GetPost(ctx, "managed-identities", i18n.Dutch)
	require.NoError(t, err)
	assert.Equal(t, "Beveiliging", post.Category)

	_, err = svc.GetPost(ctx, "nope", i18n.English)
	assert.ErrorIs(t, err, apperrors.ErrBlogPostNotFound)

	assert.Contains(t, svc.Categories(ctx, i18n.Dutch), "Beheer")
	assert.Contains(t, svc.Tags(ctx), "Bicep")
}

func newPricing(t *testing.T) (PricingService, *repositories.MemoryPricingRepository) {
	t.Helper()
	trainings, _ := loadRegistries(t)
	repo := repositories.NewMemoryPricingRepository()
	_, err := repo.Seed(context.Background(), CatalogPrices(trainings))
	require.NoError(t, err)
	return NewPricingService(trainings, repo, zerolog.Nop()), repo
}

func TestPricingDefaultsToCatalog(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()

	prices, err := svc.ListPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 6)
	assert.Equal(t, "azure-fundamentals", prices[0].Slug)
	for _, p := range prices {
		assert.Equal(t, models.PriceSourceCatalog, p.Source, p.Slug)
		assert.Nil(t, p.UpdatedAt)
	}

	p, err := svc.GetPrice(ctx, "azure-administrator")
	require.NoError(t, err)
	assert.Equal(t, 1595.0, p.Amount)
	assert.Equal(t, "EUR", p.Currency)
}

func TestPricingUpdateAndReset(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()

	p, err := svc.UpdatePrice(ctx, "azure-fundamentals", 690, "eur")
	require.NoError(t, err)
	assert.Equal(t, models.PriceSourceOverride, p.Source)
	assert.Equal(t, "EUR", p.Currency)
	require.NotNil(t, p.UpdatedAt)

	got, err := svc.GetPrice(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, 690.0, got.Amount)

	p, err = svc.ResetPrice(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, models.PriceSourceCatalog, p.Source)
	assert.Equal(t, 795.0, p.Amount)

	_, err = svc.ResetPrice(ctx, "azure-fundamentals")
	assert.NoError(t, err, "reset is idempotent")
}

func TestPricingRejectsInvalidUpdates(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()

	_, err := svc.UpdatePrice(ctx, "unknown", 10, "EUR")
	assert.ErrorIs(t, err, apperrors.ErrTrainingNotFound)

	_, err = svc.UpdatePrice(ctx, "azure-fundamentals", 0, "EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpdatePrice(ctx, "azure-fundamentals", 10, "EURO")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.GetPrice(ctx, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestPromotionDiscountsEffectivePrices(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()
	until := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	svc.(*pricingServiceImpl).now = func() time.Time { return until.Add(-time.Hour) }

	_, err := svc.GetPromotion(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoPromotion)

	p, err := svc.GetPrice(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.False(t, p.HasDiscount, "no promotion stored")
	assert.Equal(t, p.Amount, p.FinalAmount)

	promo, err := svc.UpdatePromotion(ctx, PromotionInput{Percentage: 30, Active: true, Reason: " Launch ", ValidUntil: until})
	require.NoError(t, err)
	assert.Equal(t, "Launch", promo.Reason)

	p, err = svc.GetPrice(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, 795.0, p.Amount)
	assert.Equal(t, 557.0, p.FinalAmount, "795 * 0.7 rounds half up")
	assert.True(t, p.HasDiscount)
	require.NotNil(t, p.Discount)
	assert.Equal(t, 30, p.Discount.Percentage)
	assert.Equal(t, 238.0, p.Discount.Amount)

	// Overrides are discounted too
	p, err = svc.UpdatePrice(ctx, "azure-fundamentals", 1000, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 700.0, p.FinalAmount)

	prices, err := svc.ListPrices(ctx)
	require.NoError(t, err)
	for _, price := range prices {
		assert.True(t, price.HasDiscount, price.Slug)
		assert.Less(t, price.FinalAmount, price.Amount, price.Slug)
	}
}

func TestPromotionWindow(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()
	until := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	impl := svc.(*pricingServiceImpl)

	_, err := svc.UpdatePromotion(ctx, PromotionInput{Percentage: 30, Active: true, ValidUntil: until})
	require.NoError(t, err)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before end", until.Add(-time.Second), true},
		{"at end", until, true},
		{"expired", until.Add(time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			impl.now = func() time.Time { return tc.now }
			p, err := svc.GetPrice(ctx, "azure-fundamentals")
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.HasDiscount)
		})
	}

	impl.now = func() time.Time { return until.Add(-time.Hour) }
	_, err = svc.UpdatePromotion(ctx, PromotionInput{Percentage: 30, Active: false, ValidUntil: until})
	require.NoError(t, err)
	p, err := svc.GetPrice(ctx, "azure-fundamentals")
	require.NoError(t, err)
	assert.False(t, p.HasDiscount, "inactive promotion")
	assert.Nil(t, p.Discount)
}

func TestUpdatePromotionValidates(t *testing.T) {
	svc, _ := newPricing(t)
	ctx := context.Background()
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, input := range []PromotionInput{
		{Percentage: -1, ValidUntil: until},
		{Percentage: 101, ValidUntil: until},
		{Percentage: 20, Active: true},
	} {
		_, err := svc.UpdatePromotion(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "%+v", input)
	}

	_, err := svc.GetPromotion(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoPromotion, "rejected input is not stored")
}

func TestCatalogPricesSkipsDuplicates(t *testing.T) {
	meta := &models.CourseMetadata{Slug: "a", Price: models.Price{Amount: 1, Currency: "EUR"}}
	trainings := registry.NewTrainingRegistry(nil, []registry.Registration{registry.Register(meta), registry.Register(meta)})

	prices := CatalogPrices(trainings)
	require.Len(t, prices, 1)
	assert.False(t, prices[0].Override)
}

func TestAuthServiceIssuesAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-key"), bcrypt.MinCost)
	require.NoError(t, err)
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Minute, TokenIssuer: "test"})
	ctx := context.Background()

	svc := NewAuthService(string(hash), jwtSvc, zerolog.Nop())
	token, err := svc.IssueAdminToken(ctx, "admin-key")
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = svc.IssueAdminToken(ctx, "guess")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = NewAuthService("", jwtSvc, zerolog.Nop()).IssueAdminToken(ctx, "admin-key")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

type downPricing struct{ PricingService }

func (downPricing) Ping(context.Context) error { return apperrors.ErrStorageUnavailable }

func TestHealthService(t *testing.T) {
	trainings, blog := loadRegistries(t)
	ts, bs := NewTrainingService(trainings), NewBlogService(blog)
	pricing, _ := newPricing(t)
	ctx := context.Background()

	h := NewHealthService(ts, bs, pricing, false).Check(ctx)
	assert.Equal(t, dto.HealthStatusHealthy, h.Status)
	assert.Equal(t, 6, h.Trainings)
	assert.Equal(t, 5, h.BlogPosts)
	assert.Equal(t, "disabled", h.Database.Status)

	h = NewHealthService(ts, bs, pricing, true).Check(ctx)
	assert.Equal(t, "up", h.Database.Status)

	h = NewHealthService(ts, bs, downPricing{pricing}, true).Check(ctx)
	assert.Equal(t, dto.HealthStatusDegraded, h.Status)
	assert.Equal(t, "down", h.Database.Status)
	assert.NotEmpty(t, h.Database.Error)
}
