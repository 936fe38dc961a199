package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/handler"
	"github.com/aptivohq/aptivo-backend/internal/middleware"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Attempt   *handler.AttemptHandler
	Proctor   *handler.ProctorHandler
	Exam      *handler.ExamHandler
	Ticket    *handler.TicketHandler
	StaffUser *handler.StaffUserHandler
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

	// Rate limiter for credential-bearing routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/staff/login", handlers.Auth.StaffLogin)
		auth.GET("/staff/me", middleware.RequireStaffJWT(authService), handlers.Auth.GetStaffProfile)
	}

	// ─── 2. Attempt Start (Public, Rate Limited) ───────────────────────
	// Start is the candidate "login": it carries the ticket+PIN.
	start := router.Group("/api/v1/attempts")
	start.Use(authLimiter.Middleware())
	{
		start.POST("", handlers.Attempt.Start)
	}

	// ─── 3. Candidate Group (JWT + Active Session) ─────────────────────
	candidateAPI := router.Group("/api/v1/attempts/me")
	candidateAPI.Use(
		middleware.RequireCandidateJWT(authService),
		middleware.CheckCandidateSession(authService),
	)
	{
		candidateAPI.GET("", handlers.Attempt.Snapshot)
		candidateAPI.PUT("/answers", handlers.Attempt.RecordAnswer)
		candidateAPI.PUT("/timers", handlers.Attempt.UpdateTimer)
		candidateAPI.POST("/telemetry", handlers.Attempt.RecordTelemetry)
		candidateAPI.POST("/submit", handlers.Attempt.Submit)
	}

	// ─── 4. Proctor Group (Staff JWT, admin or proctor) ────────────────
	proctorAPI := router.Group("/api/v1/proctor")
	proctorAPI.Use(
		middleware.RequireStaffJWT(authService),
		middleware.RequireStaffRole(model.StaffRoleAdmin, model.StaffRoleProctor),
	)
	{
		proctorAPI.GET("/attempts/:id", handlers.Proctor.GetSnapshot)
		proctorAPI.GET("/attempts/:id/score", handlers.Proctor.GetScore)
		proctorAPI.POST("/attempts/:id/lock", handlers.Proctor.Lock)
		proctorAPI.POST("/attempts/:id/resume", handlers.Proctor.Resume)
		proctorAPI.POST("/attempts/:id/abort", handlers.Proctor.Abort)
		proctorAPI.GET("/attempts/:id/items/:itemId/metrics", handlers.Proctor.GetItemMetrics)
		proctorAPI.POST("/attempts/:id/metrics/rebuild", handlers.Proctor.RebuildMetrics)
		proctorAPI.GET("/exam-versions/:id/attempts", handlers.Proctor.ListByExamVersion)
	}

	// ─── 5. WebSocket Group (Staff WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(authService))
	{
		ws.GET("/proctor/attempts/:id/monitor", handlers.WS.MonitorAttempt)
	}

	// ─── 6. Examiner Group (Staff JWT, admin or examiner) ──────────────
	examinerAPI := router.Group("/api/v1")
	examinerAPI.Use(
		middleware.RequireStaffJWT(authService),
		middleware.RequireStaffRole(model.StaffRoleAdmin, model.StaffRoleExaminer),
	)
	{
		examinerAPI.POST("/exam-versions", handlers.Exam.Create)
		examinerAPI.GET("/exam-versions", handlers.Exam.List)
		examinerAPI.GET("/exam-versions/:id", handlers.Exam.Get)
		examinerAPI.GET("/exam-versions/:id/definition", handlers.Exam.GetDefinition)
		examinerAPI.POST("/exam-versions/:id/modules", handlers.Exam.AddModule)
		examinerAPI.POST("/exam-versions/:id/modules/:moduleId/questions", handlers.Exam.AddQuestion)
		examinerAPI.POST("/exam-versions/:id/publish", handlers.Exam.Publish)
		examinerAPI.POST("/exam-versions/:id/archive", handlers.Exam.Archive)

		examinerAPI.POST("/tickets", handlers.Ticket.Issue)
		examinerAPI.GET("/exam-versions/:id/tickets", handlers.Ticket.ListByExamVersion)

		examinerAPI.GET("/dashboard/summary", handlers.Dashboard.GetSummary)
	}

	// ─── 7. Admin Group (Staff JWT, admin only) ────────────────────────
	adminAPI := router.Group("/api/v1/staff-users")
	adminAPI.Use(
		middleware.RequireStaffJWT(authService),
		middleware.RequireStaffRole(model.StaffRoleAdmin),
	)
	{
		adminAPI.POST("", handlers.StaffUser.Create)
		adminAPI.GET("", handlers.StaffUser.List)
		adminAPI.DELETE("/:id", handlers.StaffUser.Delete)
	}

	return router
}
