package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kinopitch/trailers-backend/internal/config"
	"github.com/kinopitch/trailers-backend/internal/http/handlers"
	"github.com/kinopitch/trailers-backend/internal/http/middleware"
	"github.com/kinopitch/trailers-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	pollHandler *handlers.PollHandler,
	reportHandler *handlers.ReportHandler,
	trailerHandler *handlers.TrailerHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Публичные маршруты: чтение трейлеров, опросов и результатов.
	api.GET("/ws", wsHandler.Handle)
	api.GET("/trailers", trailerHandler.ListTrailers)
	api.GET("/trailers/:id", middleware.UUIDValidator("id"), trailerHandler.GetTrailer)
	api.GET("/polls/:id", middleware.UUIDValidator("id"), pollHandler.GetPoll)
	api.GET("/polls/:id/results", middleware.UUIDValidator("id"), pollHandler.GetResults)

	mutationRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/trailers", trailerHandler.CreateTrailer)
		protected.POST("/trailers/:id/poster", middleware.UUIDValidator("id"), trailerHandler.UploadPoster)

		protected.POST("/polls", pollHandler.CreatePoll)
		protected.POST("/polls/:id/vote", middleware.UUIDValidator("id"), mutationRateLimit, pollHandler.Vote)
		protected.GET("/polls/:id/my-vote", middleware.UUIDValidator("id"), pollHandler.GetMyVote)

		protected.POST("/reports", mutationRateLimit, reportHandler.CreateReport)
		protected.GET("/reports/my", reportHandler.ListMyReports)

		// Модерация
		admin := protected.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/reports", reportHandler.ListReports)
			admin.GET("/reports/:id", middleware.UUIDValidator("id"), reportHandler.GetReport)
			admin.PATCH("/reports/:id", middleware.UUIDValidator("id"), reportHandler.ReviewReport)
			admin.POST("/polls/:id/reconcile", middleware.UUIDValidator("id"), pollHandler.Reconcile)
		}
	}

	return r
}
