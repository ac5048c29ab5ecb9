package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinical-records-server/internal/config"
	"clinical-records-server/internal/handlers"
	"clinical-records-server/internal/middleware"
	"clinical-records-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}
	hours := services.BusinessHours{Location: loc, Open: cfg.Schedule.OpenHour, Close: cfg.Schedule.CloseHour}

	tokenLimit, err := middleware.RateLimit(cfg.TokenRateLimit)
	if err != nil {
		return fmt.Errorf("TOKEN_RATE_LIMIT: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)
	router.Use(metrics.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, logger, metrics)
	workerHandler := handlers.NewHealthcareWorkerHandler(db, logger, metrics)
	consultationHandler := handlers.NewMedicalConsultationHandler(db, hours, logger, metrics)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		tokenRoutes := public.Group("/token")
		tokenRoutes.Use(tokenLimit)
		{
			tokenRoutes.POST("/", authHandler.Login)
			tokenRoutes.POST("/refresh/", authHandler.RefreshToken)
			tokenRoutes.POST("/logout/", authHandler.Logout)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg, logger))
	{
		workerRoutes := private.Group("/healthcareworker")
		{
			workerRoutes.GET("/", workerHandler.ListWorkers)
			workerRoutes.POST("/", workerHandler.CreateWorker)
			workerRoutes.GET("/:id/", workerHandler.GetWorker)
			workerRoutes.PUT("/:id/", workerHandler.UpdateWorker)
			workerRoutes.PATCH("/:id/", workerHandler.UpdateWorker)
			workerRoutes.DELETE("/:id/", workerHandler.DeleteWorker)
		}

		consultationRoutes := private.Group("/medicalconsultation")
		{
			consultationRoutes.GET("/", consultationHandler.ListConsultations)
			consultationRoutes.POST("/", consultationHandler.CreateConsultation)
			consultationRoutes.GET("/:id/", consultationHandler.GetConsultation)
			consultationRoutes.PUT("/:id/", consultationHandler.UpdateConsultation)
			consultationRoutes.PATCH("/:id/", consultationHandler.UpdateConsultation)
			consultationRoutes.DELETE("/:id/", consultationHandler.DeleteConsultation)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	return nil
}
