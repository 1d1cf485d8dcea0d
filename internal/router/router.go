package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/handler"
	"github.com/noah-isme/classwork-api/internal/middleware"
	"github.com/noah-isme/classwork-api/internal/service"
	"github.com/noah-isme/classwork-api/pkg/cache"
	"github.com/noah-isme/classwork-api/pkg/config"
	"github.com/noah-isme/classwork-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classwork-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classwork-api/pkg/middleware/requestid"
	"github.com/noah-isme/classwork-api/pkg/reporting"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Assignments *handler.AssignmentHandler
	Submissions *handler.SubmissionHandler
	Dashboard   *handler.DashboardHandler
	Metrics     *handler.MetricsHandler
}

// Deps carries the shared collaborators the middleware chain needs.
type Deps struct {
	Auth     *service.AuthService
	Policy   *service.AccessPolicy
	Metrics  *service.MetricsService
	Limiter  *cache.RateLimiter
	Reporter *reporting.Reporter
	Logger   *zap.Logger
}

// Setup builds the gin engine with every classwork route.
func Setup(cfg *config.Config, h Handlers, deps Deps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.OptionalJWT(deps.Auth))
	r.Use(middleware.ReportServerErrors(deps.Reporter))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	r.GET("/metrics/summary", h.Metrics.Summary)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled && deps.Limiter != nil {
		limit = middleware.RateLimit(deps.Limiter, deps.Metrics, deps.Logger)
	}
	can := func(perm service.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Policy, perm)
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", limit, h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/route", h.Auth.Route)
	}

	authorized := api.Group("")
	authorized.Use(middleware.JWT(deps.Auth))
	{
		authorized.POST("/auth/logout", h.Auth.Logout)
		authorized.GET("/auth/me", h.Auth.Me)

		assignments := authorized.Group("/assignments")
		{
			assignments.GET("", can(service.PermAssignmentList), h.Assignments.List)
			assignments.POST("", can(service.PermAssignmentCreate), h.Assignments.Create)
			assignments.GET("/analytics", can(service.PermAnalyticsView), h.Assignments.Analytics)
			assignments.POST("/submissions/:submissionId/review", can(service.PermSubmissionReview), h.Assignments.Review)
			assignments.GET("/:id", can(service.PermAssignmentList), h.Assignments.Get)
			assignments.PUT("/:id", can(service.PermAssignmentUpdate), h.Assignments.Update)
			assignments.DELETE("/:id", can(service.PermAssignmentDelete), h.Assignments.Delete)
			assignments.POST("/:id/publish", can(service.PermAssignmentPublish), h.Assignments.Publish)
			assignments.POST("/:id/complete", can(service.PermAssignmentComplete), h.Assignments.Complete)
			assignments.GET("/:id/submissions", can(service.PermSubmissionList), h.Assignments.Submissions)
			assignments.GET("/:id/submissions/export", can(service.PermSubmissionExport), h.Assignments.Export)
		}

		submissions := authorized.Group("/submissions")
		{
			submissions.GET("/assignments", can(service.PermAssignmentBrowse), h.Submissions.Available)
			submissions.POST("", can(service.PermSubmissionCreate), limit, h.Submissions.Create)
			submissions.GET("/assignment/:assignmentId", can(service.PermSubmissionViewOwn), h.Submissions.Own)
		}

		dashboard := authorized.Group("/dashboard")
		{
			dashboard.GET("/teacher", can(service.PermDashboardTeacher), h.Dashboard.Teacher)
			dashboard.GET("/student", can(service.PermDashboardStudent), h.Dashboard.Student)
		}
	}

	return r
}
