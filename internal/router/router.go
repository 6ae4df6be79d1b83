package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/handler"
	"github.com/canvasshq/canvass-backend/internal/middleware"
	"github.com/canvasshq/canvass-backend/internal/response"
	"github.com/canvasshq/canvass-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Survey    *handler.SurveyHandler
	Auth      *handler.AuthHandler
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

	// Rate limiter for session creation (20 new sessions per minute per IP).
	startLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ─── 1. Survey Group (Public) ──────────────────────────────────────
	surveyAPI := router.Group("/api/v1/survey")
	{
		surveyAPI.GET("/questions", handlers.Survey.GetCatalog)
		surveyAPI.POST("/sessions", startLimiter.Middleware(), handlers.Survey.StartSession)
		surveyAPI.GET("/sessions/:id", handlers.Survey.GetState)
		surveyAPI.PUT("/sessions/:id/answer", handlers.Survey.SetAnswer)
		surveyAPI.PUT("/sessions/:id/move", handlers.Survey.MoveRankingItem)
		surveyAPI.POST("/sessions/:id/next", handlers.Survey.Advance)
		surveyAPI.POST("/sessions/:id/back", handlers.Survey.Retreat)
	}

	// ─── 2. Auth Group (Public Login, Rate Limited) ────────────────────
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireOperatorJWT(authService), handlers.Auth.Me)
	}

	// ─── 3. Dashboard Group (Operator JWT) ─────────────────────────────
	dashboardAPI := router.Group("/api/v1/dashboard")
	dashboardAPI.Use(middleware.RequireOperatorJWT(authService))
	{
		dashboardAPI.GET("/summary", handlers.Dashboard.GetSummary)
		dashboardAPI.GET("/funnel", handlers.Dashboard.GetFunnel)
		dashboardAPI.GET("/tallies", handlers.Dashboard.GetTallies)
		dashboardAPI.GET("/breakdown", handlers.Dashboard.GetBreakdown)
		dashboardAPI.GET("/submissions", handlers.Dashboard.ListSubmissions)
		dashboardAPI.GET("/export.csv", handlers.Dashboard.ExportCSV)
	}

	// ─── 4. WebSocket Group (Operator WS Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireOperatorWSAuth(authService))
	{
		ws.GET("/dashboard/stream", handlers.WS.DashboardStream)
	}

	return router
}
