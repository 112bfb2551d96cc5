package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipeai/internal/api"
	"recipeai/internal/api/handlers/health"
	"recipeai/internal/core/cache"
	"recipeai/internal/core/ingredient"
	"recipeai/internal/core/ocr"
	"recipeai/internal/core/receipt"
	"recipeai/internal/core/recipe"
	"recipeai/internal/infrastructure/config"
	"recipeai/internal/infrastructure/metrics"
	"recipeai/internal/infrastructure/storage"
	"recipeai/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout 等待進行中請求結束的時間
const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("ocr_provider", cfg.OCR.Provider),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
	)

	location, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid meal timezone: %w", err)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	probes := map[string]health.Pinger{"database": store}

	suggestionCache, err := newCache(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer suggestionCache.Close()
	if p, ok := suggestionCache.(health.Pinger); ok {
		probes["cache"] = p
	}

	catalog, err := recipe.LoadCatalogFile(cfg.Suggestion.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	bounds := recipe.DefaultBoundaries().WithDinnerEnd(cfg.Meal.DinnerEndHour)
	if err := bounds.Validate(); err != nil {
		return err
	}

	collector := metrics.NewCollector()
	ingredientSvc := ingredient.NewService(store, collector)
	recipeSvc := recipe.NewService(catalog, store, ingredientSvc, suggestionCache, recipe.Options{
		Boundaries: bounds,
		MaxResults: cfg.Suggestion.MaxResults,
	})

	engine, err := newOCREngine(cfg)
	if err != nil {
		return err
	}
	receiptSvc := receipt.NewService(engine, store, ingredientSvc, collector, receipt.Options{
		Language:   cfg.OCR.Language,
		OCRTimeout: cfg.OCR.Timeout,
		AutoImport: cfg.Receipt.AutoImport,
		Workers:    cfg.Receipt.Workers,
	})

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Ingredients: ingredientSvc,
		Recipes:     recipeSvc,
		Receipts:    receiptSvc,
		Metrics:     collector,
		Location:    location,
		OCREngine:   cfg.OCR.Provider,
		Probes:      probes,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Int("catalog_recipes", catalog.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			common.LogError("Failed to start server", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return err
	}

	common.LogInfo("Server exited")
	return nil
}

// newCache 依設定建立建議快取
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.Noop{}, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NewManager(cfg.Cache.MaxSize, cfg.Cache.TTL, cfg.Cache.CleanupInterval), nil
	}
}

// newOCREngine 影像走設定的 OCR 供應者，PDF 一律讀取文字層
func newOCREngine(cfg *config.Config) (*ocr.Router, error) {
	var image ocr.Engine
	switch cfg.OCR.Provider {
	case "tesseract":
		image = ocr.NewTesseractEngine(cfg.OCR.TesseractBin)
	case "openrouter":
		image = ocr.NewOpenRouterEngine(ocr.OpenRouterOptions{
			BaseURL:   cfg.OpenRouter.BaseURL,
			APIKey:    cfg.OpenRouter.APIKey,
			Model:     cfg.OpenRouter.Model,
			MaxTokens: cfg.OpenRouter.MaxTokens,
			Timeout:   cfg.OCR.Timeout,
		}, ocr.NewImageEncoder(cfg.Upload.MaxSizeBytes))
	default:
		return nil, fmt.Errorf("unsupported ocr provider %q", cfg.OCR.Provider)
	}
	return ocr.NewRouter(image, ocr.NewPDFEngine()), nil
}
