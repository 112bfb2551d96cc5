package api

import (
	"fmt"
	"net/http"
	"time"

	"recipeai/internal/api/handlers"
	"recipeai/internal/api/handlers/health"
	ingredientHandler "recipeai/internal/api/handlers/ingredient"
	receiptHandler "recipeai/internal/api/handlers/receipt"
	recipeHandler "recipeai/internal/api/handlers/recipe"
	"recipeai/internal/api/middleware"
	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/receipt"
	"recipeai/internal/core/recipe"
	"recipeai/internal/infrastructure/config"
	"recipeai/internal/infrastructure/metrics"
	"recipeai/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Ingredients *ingredient.Service
	Recipes     *recipe.Service
	Receipts    *receipt.Service
	Metrics     *metrics.Collector
	Location    *time.Location
	OCREngine   string
	Probes      map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Ingredients == nil || deps.Recipes == nil || deps.Receipts == nil {
		return nil, fmt.Errorf("ingredient, recipe and receipt services are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger("/health", "/ready", "/live", "/metrics"))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", handlers.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 探針與 metrics 不受限流與逾時影響
	healthHandler := health.NewHandler(health.Info{
		Version:        cfg.App.Version,
		CatalogRecipes: deps.Recipes.Catalog().Len(),
		OCREngine:      deps.OCREngine,
	}, deps.Probes)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.StaticFS("/uploads", http.Dir(cfg.Upload.Dir))

	api := router.Group("/api")
	api.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())
	if cfg.Server.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	{
		api.GET("/health", healthHandler.HealthCheck)

		ingredients := ingredientHandler.NewHandler(deps.Ingredients, cfg.App.Debug)
		ingredientGroup := api.Group("/ingredients")
		{
			ingredientGroup.GET("", ingredients.List)
			ingredientGroup.POST("", ingredients.Create)
			ingredientGroup.DELETE("", ingredients.Clear)
			ingredientGroup.GET("/categories", ingredients.Categories)
			ingredientGroup.DELETE("/:id", ingredients.Delete)
		}

		recipes := recipeHandler.NewHandler(deps.Recipes, deps.Location, cfg.App.Debug)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.Catalog)
			recipeGroup.POST("/generate", recipes.Generate)
			recipeGroup.GET("/favorites", recipes.Favorites)
			recipeGroup.PATCH("/:id/favorite", recipes.ToggleFavorite)
		}

		receipts := receiptHandler.NewHandler(deps.Receipts, receiptHandler.UploadOptions{
			Dir:          cfg.Upload.Dir,
			MaxSizeBytes: cfg.Upload.MaxSizeBytes,
			MaxFiles:     cfg.Upload.MaxFiles,
		}, cfg.App.Debug)
		receiptGroup := api.Group("/receipts")
		{
			receiptGroup.GET("", receipts.List)
			receiptGroup.POST("/upload", receipts.Upload)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: common.ErrNotFound.Message,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("metrics", deps.Metrics != nil),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.String("upload_dir", cfg.Upload.Dir),
	)

	return router, nil
}
