package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/config"
	"github.com/stemsi/survey-analytics/internal/handler"
	"github.com/stemsi/survey-analytics/internal/middleware"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Students    *handler.StudentHandler
	Departments *handler.LookupHandler
	Hobbies     *handler.LookupHandler
	Analytics   *handler.AnalyticsHandler
	System      *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter may be nil to disable login throttling.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	loginLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

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

	// Request ID first so the request logger can report it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	router.GET("/", handlers.System.Index)
	router.GET("/health", handlers.System.Health)

	api := router.Group("/api")

	// ─── 1. Auth ───────────────────────────────────────────────────────
	requireAdmin := []gin.HandlerFunc{
		middleware.RequireAdminJWT(authService),
		middleware.RejectRevokedTokens(authService),
	}

	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		login := []gin.HandlerFunc{handlers.Auth.Login}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{loginLimiter.Middleware()}, login...)
		}
		auth.POST("/login", login...)
		auth.GET("/me", append(requireAdmin, handlers.Auth.Me)...)
		auth.POST("/logout", append(requireAdmin, handlers.Auth.Logout)...)
	}

	// Mutating routes are guarded only when AUTH_REQUIRED is set.
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if !cfg.AuthRequired {
			return []gin.HandlerFunc{h}
		}
		return append(append([]gin.HandlerFunc{}, requireAdmin...), h)
	}

	// ─── 2. Students ───────────────────────────────────────────────────
	// /students/search is registered before /students/:id; gin prefers the
	// static segment.
	students := api.Group("/students")
	{
		students.GET("", handlers.Students.List)
		students.GET("/search", handlers.Analytics.Search)
		students.POST("", write(handlers.Students.Create)...)
		students.GET("/:id", handlers.Students.Get)
		students.PUT("/:id", write(handlers.Students.Replace)...)
		students.PATCH("/:id", write(handlers.Students.Patch)...)
		students.DELETE("/:id", write(handlers.Students.Delete)...)
	}

	// ─── 3. Departments & Hobbies ──────────────────────────────────────
	for path, h := range map[string]*handler.LookupHandler{
		"/departments": handlers.Departments,
		"/hobbies":     handlers.Hobbies,
	} {
		g := api.Group(path)
		g.GET("", h.List)
		g.POST("", write(h.Create)...)
		g.GET("/:id", h.Get)
		g.PUT("/:id", write(h.Update)...)
		g.PATCH("/:id", write(h.Update)...)
		g.DELETE("/:id", write(h.Delete)...)
	}

	// ─── 4. Analytics ──────────────────────────────────────────────────
	analytics := api.Group("/analytics")
	{
		analytics.GET("/departments/summary", handlers.Analytics.DepartmentSummary)
		analytics.GET("/parttime/impact", handlers.Analytics.PartTimeImpact)
		analytics.GET("/studytime/performance", handlers.Analytics.StudyTimePerformance)
		analytics.GET("/risk", handlers.Analytics.Risk)
		analytics.GET("/bmi/distribution", handlers.Analytics.BMIDistribution)
	}

	return router
}
