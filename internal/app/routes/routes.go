package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/app/controllers"
	"github.com/cloudevolvers/catalog/internal/middleware"
	"github.com/cloudevolvers/catalog/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	trainingController *controllers.TrainingController,
	blogController *controllers.BlogController,
	pricingController *controllers.PricingController,
	authController *controllers.AuthController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	trainings := v1.Group("/trainings")
	{
		trainings.GET("", trainingController.GetTrainings)
		trainings.GET("/:slug", trainingController.GetTrainingBySlug)
		trainings.GET("/:slug/content", trainingController.GetTrainingContent)
	}

	blog := v1.Group("/blog")
	{
		blog.GET("", blogController.GetPosts)
		blog.GET("/tags", blogController.GetTags)
		blog.GET("/categories", blogController.GetCategories)
		blog.GET("/:id", blogController.GetPost)
	}

	pricing := v1.Group("/pricing")
	{
		pricing.GET("", pricingController.GetPrices)
		pricing.GET("/:slug", pricingController.GetPrice)
	}
	v1.GET("/promotion", pricingController.GetPromotion)

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.POST("/token", authController.IssueToken)

	adminProtected := admin.Group("")
	adminProtected.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		adminProtected.PUT("/pricing/:slug", pricingController.UpdatePrice)
		adminProtected.DELETE("/pricing/:slug", pricingController.ResetPrice)
		adminProtected.PUT("/promotion", pricingController.UpdatePromotion)
	}
}
