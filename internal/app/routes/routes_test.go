package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudevolvers/catalog/internal/app/controllers"
	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/app/repositories"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/content"
	"github.com/cloudevolvers/catalog/internal/middleware"
	"github.com/cloudevolvers/catalog/internal/pkg/auth"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

const adminKey = "correct-horse"

func newTestRouter(t *testing.T, keyHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidation()

	trainings, err := registry.LoadTrainings(content.FS())
	require.NoError(t, err)
	blog, err := registry.LoadBlog(content.FS())
	require.NoError(t, err)

	lgr := zerolog.Nop()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Minute, TokenIssuer: "test"})
	trainingSvc := services.NewTrainingService(trainings)
	blogSvc := services.NewBlogService(blog)
	pricingSvc := services.NewPricingService(trainings, repositories.NewMemoryPricingRepository(), lgr)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Locale(i18n.English))
	SetupRouter(router,
		controllers.NewTrainingController(trainingSvc, pricingSvc, lgr),
		controllers.NewBlogController(blogSvc),
		controllers.NewPricingController(pricingSvc),
		controllers.NewAuthController(services.NewAuthService(keyHash, jwtSvc, lgr)),
		controllers.NewHealthController(services.NewHealthService(trainingSvc, blogSvc, pricingSvc, false)),
		middleware.NewAuthMiddleware(jwtSvc),
	)
	return router
}

func adminHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func do(router *gin.Engine, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of an APIResponse into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestListTrainingsPaginates(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodGet, "/api/v1/trainings?size=4&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.TrainingListResponse
	decodeData(t, w, &list)
	assert.Len(t, list.Trainings, 2)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 2, TotalPages: 2, PageSize: 4, TotalItems: 6}, list.Pagination)
	assert.Equal(t, "microsoft-365-fundamentals", list.Trainings[0].Slug)

	w = do(router, http.MethodGet, "/api/v1/trainings?featured=true&category=azure", "", nil)
	decodeData(t, w, &list)
	assert.Equal(t, 2, list.Pagination.TotalItems)

	w = do(router, http.MethodGet, "/api/v1/trainings?tag=Azure", "", nil)
	decodeData(t, w, &list)
	assert.Equal(t, 4, list.Pagination.TotalItems)

	w = do(router, http.MethodGet, "/api/v1/trainings?size=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))
}

func TestGetTrainingBySlug(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodGet, "/api/v1/trainings/azure-fundamentals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var training dto.TrainingResponse
	decodeData(t, w, &training)
	assert.Equal(t, "Azure", training.Category)
	require.NotNil(t, training.EffectivePrice)
	assert.Equal(t, models.PriceSourceCatalog, training.EffectivePrice.Source)

	for _, slug := range []string{"does-not-exist", "AZURE-FUNDAMENTALS"} {
		w := do(router, http.MethodGet, "/api/v1/trainings/"+slug, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, slug)
		assert.Equal(t, dto.ErrorCodeResourceNotFound, errorCode(t, w), slug)
	}
}

func TestGetTrainingContentFormats(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodGet, "/api/v1/trainings/azure-fundamentals/content", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var html dto.TrainingContentResponse
	decodeData(t, w, &html)
	assert.Equal(t, dto.ContentFormatHTML, html.Format)
	assert.Contains(t, html.Body, "<h2")
	require.NotEmpty(t, html.Outline)
	assert.Equal(t, "Course Overview", html.Outline[0].Text)

	w = do(router, http.MethodGet, "/api/v1/trainings/azure-fundamentals/content?format=markdown", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var md dto.TrainingContentResponse
	decodeData(t, w, &md)
	assert.Contains(t, md.Body, "## Course Overview")
	assert.Equal(t, html.Outline, md.Outline)

	w = do(router, http.MethodGet, "/api/v1/trainings/azure-fundamentals/content?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/trainings/ghost/content", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlogEndpointsLocalize(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodGet, "/api/v1/blog", "", map[string]string{"Accept-Language": "nl-NL,nl;q=0.9"})
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.BlogListResponse
	decodeData(t, w, &list)
	assert.Equal(t, i18n.Dutch, list.Locale)
	assert.Equal(t, 5, list.Pagination.TotalItems)
	assert.Equal(t, "AKS afschermen met network policies", list.Posts[0].Title)

	w = do(router, http.MethodGet, "/api/v1/blog?locale=nl&category=Beveiliging", "", nil)
	decodeData(t, w, &list)
	assert.Len(t, list.Posts, 2)

	w = do(router, http.MethodGet, "/api/v1/blog?tag=Bicep", "", nil)
	decodeData(t, w, &list)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, "bicep-best-practices", list.Posts[0].ID)

	w = do(router, http.MethodGet, "/api/v1/blog/managed-identities?lang=nl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var post models.LocalizedBlogPost
	decodeData(t, w, &post)
	assert.Equal(t, "Beveiliging", post.Category)

	w = do(router, http.MethodGet, "/api/v1/blog/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/api/v1/blog/categories?locale=nl", "", nil)
	var cats dto.BlogCategoriesResponse
	decodeData(t, w, &cats)
	assert.Contains(t, cats.Categories, "Identiteit")

	w = do(router, http.MethodGet, "/api/v1/blog/tags", "", nil)
	var tags []string
	decodeData(t, w, &tags)
	assert.Contains(t, tags, "Kubernetes")
}

func TestAdminPricingFlow(t *testing.T) {
	router := newTestRouter(t, adminHash(t))

	w := do(router, http.MethodPost, "/api/v1/admin/token", `{"key": "wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodPut, "/api/v1/admin/pricing/azure-fundamentals", `{"amount": 690, "currency": "EUR"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodPost, "/api/v1/admin/token", `{"key": "`+adminKey+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.AdminTokenResponse
	decodeData(t, w, &token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, 60, token.ExpiresIn)
	bearer := map[string]string{"Authorization": "Bearer " + token.AccessToken}

	w = do(router, http.MethodPut, "/api/v1/admin/pricing/azure-fundamentals", `{"amount": 0, "currency": "EUR"}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPut, "/api/v1/admin/pricing/ghost", `{"amount": 690, "currency": "EUR"}`, bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPut, "/api/v1/admin/pricing/azure-fundamentals", `{"amount": 690, "currency": "EUR"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/v1/pricing/azure-fundamentals", "", nil)
	var price models.EffectivePrice
	decodeData(t, w, &price)
	assert.Equal(t, models.PriceSourceOverride, price.Source)
	assert.Equal(t, 690.0, price.Amount)

	w = do(router, http.MethodDelete, "/api/v1/admin/pricing/azure-fundamentals", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/v1/pricing", "", nil)
	var prices dto.PriceListResponse
	decodeData(t, w, &prices)
	require.Len(t, prices.Prices, 6)
	assert.Equal(t, models.PriceSourceCatalog, prices.Prices[0].Source)
	assert.Equal(t, 795.0, prices.Prices[0].Amount)
}

func adminBearer(t *testing.T, router *gin.Engine) map[string]string {
	t.Helper()
	w := do(router, http.MethodPost, "/api/v1/admin/token", `{"key": "`+adminKey+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.AdminTokenResponse
	decodeData(t, w, &token)
	return map[string]string{"Authorization": "Bearer " + token.AccessToken}
}

func TestAdminPromotionFlow(t *testing.T) {
	router := newTestRouter(t, adminHash(t))
	until := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second).Format(time.RFC3339)
	body := `{"percentage": 30, "active": true, "reason": "Launch", "validUntil": "` + until + `"}`

	w := do(router, http.MethodGet, "/api/v1/promotion", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPut, "/api/v1/admin/promotion", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bearer := adminBearer(t, router)
	for _, bad := range []string{
		`{"active": true, "validUntil": "2030-01-01"}`,
		`{"percentage": 30, "validUntil": "2030-01-01"}`,
		`{"percentage": 130, "active": true, "validUntil": "2030-01-01"}`,
		`{"percentage": 30, "active": true, "validUntil": "someday"}`,
		`{"percentage": 30, "active": true}`,
	} {
		w = do(router, http.MethodPut, "/api/v1/admin/promotion", bad, bearer)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w = do(router, http.MethodPut, "/api/v1/admin/promotion", body, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var promo models.Promotion
	decodeData(t, w, &promo)
	assert.Equal(t, 30, promo.Percentage)
	assert.True(t, promo.Active)

	w = do(router, http.MethodGet, "/api/v1/pricing/azure-fundamentals", "", nil)
	var price models.EffectivePrice
	decodeData(t, w, &price)
	assert.Equal(t, 795.0, price.Amount)
	assert.Equal(t, 557.0, price.FinalAmount)
	assert.True(t, price.HasDiscount)
	require.NotNil(t, price.Discount)
	assert.Equal(t, "Launch", price.Discount.Reason)

	w = do(router, http.MethodGet, "/api/v1/pricing", "", nil)
	var prices dto.PriceListResponse
	decodeData(t, w, &prices)
	require.NotNil(t, prices.Promotion)
	assert.Equal(t, 30, prices.Promotion.Percentage)

	w = do(router, http.MethodGet, "/api/v1/trainings/azure-fundamentals", "", nil)
	var training dto.TrainingResponse
	decodeData(t, w, &training)
	require.NotNil(t, training.EffectivePrice)
	assert.Equal(t, 557.0, training.EffectivePrice.FinalAmount)

	// A bare date covers the whole day; switching the promotion off removes the discount
	w = do(router, http.MethodPut, "/api/v1/admin/promotion", `{"percentage": 30, "active": false, "validUntil": "2030-01-01"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &promo)
	assert.Equal(t, time.Date(2030, 1, 1, 23, 59, 59, 0, time.UTC), promo.ValidUntil.UTC())

	w = do(router, http.MethodGet, "/api/v1/pricing/azure-fundamentals", "", nil)
	price = models.EffectivePrice{}
	decodeData(t, w, &price)
	assert.False(t, price.HasDiscount)
	assert.Equal(t, 795.0, price.FinalAmount)
}

func TestAdminTokenDisabledWithoutHash(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodPost, "/api/v1/admin/token", `{"key": "anything"}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, errorCode(t, w))

	w = do(router, http.MethodPost, "/api/v1/admin/token", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, "")

	w := do(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, dto.HealthStatusHealthy, health.Status)
	assert.Equal(t, 6, health.Trainings)
	assert.Equal(t, 5, health.BlogPosts)
	assert.False(t, health.Database.Enabled)
}
