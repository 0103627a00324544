package api

import (
	"time"

	"nutrition-chat/internal/api/handlers/health"
	nutritionHandler "nutrition-chat/internal/api/handlers/nutrition"
	"nutrition-chat/internal/api/middleware"
	"nutrition-chat/internal/core/ai/cache"
	"nutrition-chat/internal/core/ai/deepseek"
	"nutrition-chat/internal/core/learning"
	"nutrition-chat/internal/core/nutrition"
	"nutrition-chat/internal/core/pipeline"
	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"
	"nutrition-chat/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Request body cap (1MB). Meal descriptions are short text.
const maxBodySize = 1 << 20

// SetupRouter wires the full service graph and registers every route.
func SetupRouter(cfg *config.Config, store *storage.SQLiteStorage) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("environment", cfg.App.Env),
		zap.Bool("deepseek_configured", cfg.DeepSeek.Enabled()),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// Propagate the request id into the request context so downstream
	// calls (LLM client logging) can correlate.
	router.Use(func(c *gin.Context) {
		ctx := common.WithRequestID(c.Request.Context(), requestid.Get(c))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// Analysis core.
	dict := nutrition.NewDictionary()
	matcher := nutrition.NewMatcher(dict)
	units := nutrition.NewUnitTable()
	parser := nutrition.NewQuantityParser(units)
	extractor := nutrition.NewExtractor(matcher, parser)
	calculator := nutrition.NewCalculator(dict, units)
	memory := nutrition.NewMemory(cfg.Nutrition.MemorySize)

	workflow := learning.NewWorkflow(store, matcher)

	pipe := pipeline.New(pipeline.Options{
		Config:     cfg,
		Dictionary: dict,
		Matcher:    matcher,
		Extractor:  extractor,
		Calculator: calculator,
		Memory:     memory,
		LLM:        deepseek.NewClient(cfg),
		Cache:      cache.NewStore(cfg),
		Curator:    workflow,
	})

	handler := nutritionHandler.NewHandler(cfg, pipe, store, workflow, dict, units, calculator)

	router.GET("/health", health.HealthCheck(cfg))
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	router.POST("/analyze", handler.Analyze)
	router.POST("/analyze-with-date", handler.AnalyzeWithDate)
	router.POST("/update-quantity", handler.UpdateQuantity)
	router.POST("/update-food", handler.UpdateFood)
	router.POST("/delete-food", handler.DeleteFood)
	router.POST("/confirm-meal", handler.ConfirmMeal)
	router.GET("/history", handler.History)
	router.GET("/foods", handler.Foods)
	router.GET("/statistics", handler.Statistics)

	router.GET("/admin/pending-foods", handler.PendingFoods)
	router.POST("/admin/review-pending-food", handler.ReviewPendingFood)

	router.GET("/analytics/food-trends", handler.FoodTrends)

	common.LogInfo("router setup completed",
		zap.Int("dictionary_size", dict.Len()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
	)

	return router, nil
}
