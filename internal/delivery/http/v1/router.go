package v1

import (
	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	HealthUC      domain.HealthUsecase
	SecLogger     *security.SecurityLogger
	RateLimiter   *middleware.RateLimiter
	Metrics       *prometheus.Registry
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	validation.RegisterWithGin()

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURLs, deps.Config.IsProduction())) // before anything that can abort
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsBuilder(deps.Metrics).Build())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())

	window := deps.Config.RateLimitWindow()
	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
		authLimit = deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitAuthThreshold, window))
	}

	api := r.Group("/api")

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewHealthHandler(api, deps.HealthUC)

	employerOnly := middleware.RequireRole(deps.SecLogger, domain.RoleEmployer)
	developerOnly := middleware.RequireRole(deps.SecLogger, domain.RoleDeveloper)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC, deps.SecLogger))
	{
		NewAuthHandler(api, protected, deps.AuthUC, authLimit)
		NewJobHandler(api, protected, deps.JobUC, employerOnly)
		NewApplicationHandler(protected, deps.ApplicationUC, developerOnly, employerOnly)
	}

	return r
}
