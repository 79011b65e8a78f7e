package api

import (
	"aime-backend/internal/api/catalog"
	"aime-backend/internal/api/donation"
	"aime-backend/internal/api/event"
	"aime-backend/internal/api/impact"
	"aime-backend/internal/api/staff"
	"aime-backend/internal/api/stats"
	"aime-backend/internal/api/user"
	"aime-backend/internal/metrics"
	"aime-backend/internal/middleware"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options 路由的外部依赖
type Options struct {
	FrontendURL string
	Metrics     *metrics.Metrics
	// Gatherer 为 nil 时不注册 /metrics
	Gatherer prometheus.Gatherer
	// Ping 检查存储是否可用，为 nil 时 /healthz 始终返回 ok
	Ping func(ctx context.Context) error
}

// NewRouter 注册中间件与全部 API 路由
func NewRouter(svc *service.Services, opts Options) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			util.Logger.Error("注册自定义验证器失败", zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware(opts.Metrics))
	r.Use(middleware.ErrorMonitorMiddleware(middleware.NewErrorMonitor(opts.Metrics)))
	r.Use(middleware.RecoveryMiddleware())

	corsConfig := cors.DefaultConfig()
	if opts.FrontendURL != "" {
		corsConfig.AllowOrigins = []string{opts.FrontendURL}
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		middleware.RequestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		middleware.RequestIDHeader,
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", healthz(opts.Ping))
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	statsHandler := stats.NewStatsHandler(svc.Stats)
	impactHandler := impact.NewImpactHandler(svc.Impacts)
	donationHandler := donation.NewDonationHandler(svc.Donations)
	eventHandler := event.NewEventHandler(svc.Participation, svc.Challenges)
	staffHandler := staff.NewStaffHandler(svc.Contributions)
	profileHandler := user.NewProfileHandler(svc.Profiles)
	dashboardHandler := user.NewDashboardHandler(svc.Profiles, svc.Notifications)
	catalogHandler := catalog.NewCatalogHandler(svc.Catalog)

	api := r.Group("/api")
	{
		// 公开路由
		api.GET("/stats", statsHandler.GetStats)
		api.GET("/impact-data", impactHandler.GetImpactData)
		api.GET("/leaderboard", dashboardHandler.Leaderboard)
		api.POST("/donations", donationHandler.CreateDonation)

		api.GET("/projects", catalogHandler.ListProjects)
		api.GET("/projects/:slug", catalogHandler.GetProject)
		api.GET("/events", catalogHandler.ListEvents)
		api.GET("/events/:id", catalogHandler.GetEvent)
		api.GET("/challenges", catalogHandler.ListChallenges)
		api.GET("/challenges/:id", catalogHandler.GetChallenge)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.POST("/profile", profileHandler.EnsureProfile)
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PATCH("/profile", profileHandler.UpdateProfile)
			authorized.PATCH("/profile/preferences", profileHandler.UpdatePreferences)

			authorized.GET("/dashboard", dashboardHandler.GetDashboard)
			authorized.GET("/dashboard/notifications", dashboardHandler.ListNotifications)
			authorized.POST("/dashboard/notifications/:id/read", dashboardHandler.MarkNotificationRead)

			authorized.POST("/events/:id/join", eventHandler.JoinEvent)
			authorized.GET("/participations", eventHandler.ListMyParticipations)
			authorized.POST("/challenges/:id/join", eventHandler.JoinChallenge)
		}

		// 员工路由
		staffRoutes := api.Group("")
		staffRoutes.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware())
		{
			staffRoutes.POST("/impact-points", impactHandler.CreateImpactPoint)

			staffRoutes.GET("/donations", donationHandler.ListDonations)
			staffRoutes.PATCH("/donations/:id/status", donationHandler.UpdateDonationStatus)
			staffRoutes.PATCH("/participations/:id/status", eventHandler.UpdateParticipationStatus)
			staffRoutes.PATCH("/mbc-participants/:id/status", eventHandler.UpdateParticipantStatus)

			staffRoutes.GET("/staff/contributions", staffHandler.ListContributions)
			staffRoutes.POST("/staff/contributions", staffHandler.CreateContribution)
			staffRoutes.POST("/staff/contributions/:id/validate", staffHandler.ValidateContribution)
			staffRoutes.POST("/staff/profiles/:user_id/award", profileHandler.Award)
		}
	}

	return r
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				util.Logger.Warn("健康检查失败", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
