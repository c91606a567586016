package http

import (
	"github.com/calorietracker/backend/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger.Named("access")))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/resolve", handler.ResolveNutrition)
			nutrition.POST("/photo", handler.RecognizePhoto)
		}

		v1.GET("/profile", handler.GetProfile)
		v1.PUT("/profile", handler.SaveProfile)
		v1.POST("/goals/preview", handler.PreviewGoals)

		journal := v1.Group("/journal")
		{
			journal.POST("/food", handler.LogFood)
			journal.POST("/meals", handler.LogMeal)
			journal.DELETE("/meals/:id", handler.DeleteMeal)
			journal.POST("/activities", handler.LogActivity)
			journal.POST("/weights", handler.LogWeight)
			journal.GET("/summary", handler.DailySummary)
		}
	}

	return router
}
