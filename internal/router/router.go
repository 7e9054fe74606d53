package router

import (
	"net/http"
	"time"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/handler"
	"github.com/crisphq/crisp-backend/internal/middleware"
	"github.com/crisphq/crisp-backend/internal/response"
	"github.com/crisphq/crisp-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Candidate *handler.CandidateHandler
	Interview *handler.InterviewHandler
	Dashboard *handler.DashboardHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploads and logins are rate limited per IP.
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	v1 := router.Group("/api/v1")
	{
		// ─── Public: candidate intake and interview flow ───────────────
		candidates := v1.Group("/candidates")
		{
			candidates.POST("/resume", uploadLimiter.Middleware(), handlers.Candidate.UploadResume)
			candidates.POST("", handlers.Candidate.Create)

			session := candidates.Group("/:candidate_id/interview")
			{
				session.POST("/start", handlers.Interview.Start)
				session.GET("", handlers.Interview.State)
				session.POST("/pause", handlers.Interview.Pause)
				session.POST("/resume", handlers.Interview.Resume)
				session.POST("/visibility", handlers.Interview.Visibility)
				session.POST("/answer", handlers.Interview.SubmitAnswer)
			}
		}

		// ─── Auth ──────────────────────────────────────────────────────
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
			auth.GET("/me", middleware.RequireInterviewerJWT(authService), handlers.Auth.Me)
		}

		// ─── Interviewer dashboard ─────────────────────────────────────
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.RequireInterviewerJWT(authService))
		{
			dashboard.GET("/candidates", handlers.Dashboard.ListCandidates)
			dashboard.GET("/candidates/:candidate_id", handlers.Dashboard.GetCandidate)
			dashboard.GET("/stats", handlers.Dashboard.Stats)
		}
	}

	// ─── WebSocket stream ──────────────────────────────────────────────
	router.GET("/ws/v1/candidates/:candidate_id/stream", handlers.WS.InterviewStream)

	return router
}
