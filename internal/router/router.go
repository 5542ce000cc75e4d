package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/handler"
	"github.com/terraquiz/terraquiz/internal/middleware"
	"github.com/terraquiz/terraquiz/internal/response"
	"github.com/terraquiz/terraquiz/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz    *handler.QuizHandler
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokenManager *session.TokenManager,
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
		corsConfig.AllowCredentials = true // Session cookie must survive CORS
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the quiz flow (60 requests per minute per IP —
	// generous for a human clicking through questions, tight enough to stop
	// scripted hammering of the LLM-backed generator).
	quizLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── Quiz Flow (Session Cookie, Rate Limited) ──────────────────────
	quiz := router.Group("/")
	quiz.Use(
		quizLimiter.Middleware(),
		session.Middleware(tokenManager, int(cfg.SessionTTL.Seconds())),
	)
	{
		quiz.GET("/get_question", handlers.Quiz.GetQuestion)
		quiz.POST("/check_answer", handlers.Quiz.CheckAnswer)
		quiz.GET("/get_history", handlers.Quiz.GetHistory)
		quiz.POST("/reset_session", handlers.Quiz.ResetSession)
	}

	// ─── Aggregates ────────────────────────────────────────────────────
	router.GET("/stats", handlers.Quiz.GetStats)

	// ─── WebSocket Monitor ─────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/monitor", handlers.Monitor.MonitorStream)
	}

	return router
}
