package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/handler"
	"github.com/luxilearn/luxilearn-backend/internal/middleware"
	"github.com/luxilearn/luxilearn-backend/internal/response"
	"github.com/luxilearn/luxilearn-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	Learn       *handler.LearnHandler
	CourseAdmin *handler.CourseAdminHandler
	Dashboard   *handler.DashboardHandler
	Activity    *handler.ActivityHandler
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
	corsConfig.AllowCredentials = len(cfg.AllowedOrigins) > 0 // learner cookie needs credentials
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the grading endpoints (60 requests per minute per IP).
	submitLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Public Catalog Group (No Auth, Cacheable) ──────────────────
	catalog := router.Group("/api/v1/courses")
	catalog.Use(middleware.CacheControl(60))
	{
		catalog.GET("", handlers.Catalog.ListCourses)
		catalog.GET("/:courseSlug", handlers.Catalog.GetCourse)
		catalog.GET("/:courseSlug/lessons/:lessonSlug", handlers.Catalog.GetLesson)
	}

	// ─── 3. Learner Group (Anonymous Cookie Identity) ──────────────────
	learn := router.Group("/api/v1/learn")
	learn.Use(
		middleware.LearnerIdentity(cfg.LearnerCookieMaxAge),
		submitLimiter.Middleware(),
	)
	{
		learn.POST("/:courseSlug/lessons/:lessonSlug/start", handlers.Learn.StartLesson)
		learn.POST("/:courseSlug/lessons/:lessonSlug/answer", handlers.Learn.Answer)
		learn.POST("/:courseSlug/lessons/:lessonSlug/submit", handlers.Learn.SubmitQuiz)
		learn.POST("/:courseSlug/lessons/:lessonSlug/exercise", handlers.Learn.SubmitExercise)
		learn.GET("/:courseSlug/summary", handlers.Learn.GetSummary)
		learn.POST("/:courseSlug/reset", handlers.Learn.ResetCourse)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RequireAdminJWT(authService))
	{
		admin.GET("/dashboard", handlers.Dashboard.GetOverview)
		admin.GET("/activity/ws", handlers.Activity.Stream)

		admin.GET("/courses", handlers.CourseAdmin.ListCourses)
		admin.POST("/courses", handlers.CourseAdmin.CreateCourse)
		admin.GET("/courses/:id", handlers.CourseAdmin.GetCourse)
		admin.PUT("/courses/:id", handlers.CourseAdmin.UpdateCourse)
		admin.DELETE("/courses/:id", handlers.CourseAdmin.DeleteCourse)
		admin.POST("/courses/:id/publish", handlers.CourseAdmin.PublishCourse)
		admin.POST("/courses/:id/archive", handlers.CourseAdmin.ArchiveCourse)

		admin.GET("/courses/:id/lessons", handlers.CourseAdmin.ListLessons)
		admin.POST("/courses/:id/lessons", handlers.CourseAdmin.CreateLesson)
		admin.GET("/courses/:id/lessons/:lessonSlug", handlers.CourseAdmin.GetLesson)
		admin.PUT("/courses/:id/lessons/:lessonSlug", handlers.CourseAdmin.UpdateLesson)
		admin.DELETE("/courses/:id/lessons/:lessonSlug", handlers.CourseAdmin.DeleteLesson)
		admin.PUT("/courses/:id/lessons/:lessonSlug/quizzes", handlers.CourseAdmin.ReplaceQuizzes)
		admin.PUT("/courses/:id/lessons/:lessonSlug/exercise", handlers.CourseAdmin.UpsertExercise)
		admin.DELETE("/courses/:id/lessons/:lessonSlug/exercise", handlers.CourseAdmin.DeleteExercise)
	}

	return router
}
