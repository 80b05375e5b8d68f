package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/cloudevolvers/catalog/internal/app/controllers"
	appMigrations "github.com/cloudevolvers/catalog/internal/app/migrations"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	appRepos "github.com/cloudevolvers/catalog/internal/app/repositories"
	appRoutes "github.com/cloudevolvers/catalog/internal/app/routes"
	appServices "github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/config"
	"github.com/cloudevolvers/catalog/internal/content"
	"github.com/cloudevolvers/catalog/internal/db"
	appMiddleware "github.com/cloudevolvers/catalog/internal/middleware"
	pkgAuth "github.com/cloudevolvers/catalog/internal/pkg/auth"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
	"github.com/cloudevolvers/catalog/internal/pkg/logger"
	"github.com/cloudevolvers/catalog/internal/seed"
)

// Content holds the registries built from the embedded content tree
type Content struct {
	Trainings *registry.TrainingRegistry
	Blog      *registry.BlogRegistry
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	TrainingService    appServices.TrainingService
	BlogService        appServices.BlogService
	PricingService     appServices.PricingService
	AuthService        appServices.AuthService
	HealthService      appServices.HealthService
	TrainingController *appControllers.TrainingController
	BlogController     *appControllers.BlogController
	PricingController  *appControllers.PricingController
	AuthController     *appControllers.AuthController
	HealthController   *appControllers.HealthController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	JWTService         *pkgAuth.JWTService
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// LoadContent builds the training and blog registries and checks the catalog.
// Inconsistencies are logged, or returned when content.strict is set.
func LoadContent(cfg *config.Config, lgr zerolog.Logger) (*Content, error) {
	trainings, err := registry.LoadTrainings(content.FS())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load training catalog")
		return nil, err
	}

	blog, err := registry.LoadBlog(content.FS())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load blog posts")
		return nil, err
	}

	if err := trainings.Validate(); err != nil {
		if cfg.Content.Strict {
			lgr.Error().Err(err).Msg("Training catalog is inconsistent")
			return nil, fmt.Errorf("training catalog validation failed: %w", err)
		}
		lgr.Warn().Err(err).Msg("Training catalog is inconsistent, serving it anyway")
	}

	lgr.Info().
		Int("trainings", trainings.Len()).
		Int("blogPosts", blog.Len()).
		Strs("categories", trainings.Categories()).
		Msg("Content loaded")

	return &Content{Trainings: trainings, Blog: blog}, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// It returns a nil pool when the database is disabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if !cfg.Database.Enabled {
		lgr.Info().Msg("Database disabled, course prices are kept in memory")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, logger.Component("db"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFS(ctx, os.DirFS(migrationsDir)); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// NewPricingRepository picks the Postgres store when a pool is given and the
// in-memory store otherwise, then seeds it with the catalog prices and the
// configured promotion.
func NewPricingRepository(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, trainings *registry.TrainingRegistry, lgr zerolog.Logger) appRepos.PricingRepository {
	repo := appRepos.NewPricingRepository(dbPool)
	if _, err := seed.CoursePrices(ctx, repo, trainings, lgr); err != nil {
		// Missing rows fall back to the catalog price
		lgr.Error().Err(err).Msg("Failed to seed course prices, proceeding anyway...")
	}
	if _, err := seed.Promotion(ctx, repo, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed promotion, prices are served undiscounted")
	}
	return repo
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, catalog *Content, pricingRepo appRepos.PricingRepository, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Admin.JWTSecret,
		AccessTokenExp: helpers.ParseDuration(cfg.Admin.TokenExpiration, time.Hour),
		TokenIssuer:    cfg.Admin.Issuer,
	})
	if !cfg.AdminEnabled() {
		lgr.Warn().Msg("No admin key hash configured, admin endpoints are disabled")
	}

	deps.TrainingService = appServices.NewTrainingService(catalog.Trainings)
	deps.BlogService = appServices.NewBlogService(catalog.Blog)
	deps.PricingService = appServices.NewPricingService(catalog.Trainings, pricingRepo, logger.Component("pricing"))
	deps.AuthService = appServices.NewAuthService(cfg.Admin.KeyHash, deps.JWTService, logger.Component("auth"))
	deps.HealthService = appServices.NewHealthService(deps.TrainingService, deps.BlogService, deps.PricingService, cfg.Database.Enabled)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.TrainingController = appControllers.NewTrainingController(deps.TrainingService, deps.PricingService, logger.Component("trainings"))
	deps.BlogController = appControllers.NewBlogController(deps.BlogService)
	deps.PricingController = appControllers.NewPricingController(deps.PricingService)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.HealthController = appControllers.NewHealthController(deps.HealthService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.CORS(cfg.Server.AllowedOrigin),
		appMiddleware.Locale(cfg.DefaultLocale()),
	)

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.TrainingController,
		deps.BlogController,
		deps.PricingController,
		deps.AuthController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
