package routes

import (
	"fmt"
	"net/http"

	"jobbee-api/internal/config"
	"jobbee-api/internal/delivery/http/handler"
	"jobbee-api/internal/infrastructure/database/postgres"
	"jobbee-api/internal/infrastructure/geocode"
	"jobbee-api/internal/infrastructure/mail"
	"jobbee-api/internal/infrastructure/storage"
	"jobbee-api/internal/logger"
	"jobbee-api/internal/middleware"
	jobUsecase "jobbee-api/internal/usecase/job"
	userUsecase "jobbee-api/internal/usecase/user"
	"jobbee-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the gin engine with the full middleware chain and all
// API routes. The user service is returned so the caller can run its
// background jobs.
func SetupRoutes(
	cfg *config.Config,
	db *postgres.DB,
	store storage.ResumeStore,
	geocoder geocode.Geocoder,
	mailer mail.Mailer,
) (*gin.Engine, *userUsecase.Service) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.Init(cfg.Server.Environment)

	router := gin.New()

	// Middleware order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.Response{
			Success: false,
			Message: fmt.Sprintf("%s route not found", c.Request.URL.Path),
		})
	})

	userRepository := postgres.NewUserRepository(db)
	jobRepository := postgres.NewJobRepository(db)

	jobService := jobUsecase.NewService(jobRepository, userRepository, store, geocoder, cfg)
	userService := userUsecase.NewService(userRepository, jobRepository, store, mailer, cfg)

	jobHandler := handler.NewJobHandler(jobService)
	userHandler := handler.NewUserHandler(userService, cfg)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1)
		jobHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProtectedRoutes(protected)

			employer := protected.Group("")
			employer.Use(middleware.EmployerOnly())
			{
				jobHandler.RegisterEmployerRoutes(employer)
			}

			applicant := protected.Group("")
			applicant.Use(middleware.ApplicantOnly())
			{
				jobHandler.RegisterApplicantRoutes(applicant)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router, userService
}
