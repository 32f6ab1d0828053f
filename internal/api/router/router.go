package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/api/handler"
	"github.com/Iamanointing/mvv/internal/api/middleware"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/pkg/jwt"
	"github.com/Iamanointing/mvv/pkg/redis"
	"github.com/Iamanointing/mvv/pkg/upload"
)

// Setup builds the gin engine. rdb may be nil.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	hub *realtime.Hub,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit((cfg.Server.MaxUploadMB + 1) << 20))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── uploads & realtime ──
	r.Static(upload.URLPrefix, cfg.Server.UploadDir)
	r.GET("/ws", gin.WrapF(hub.ServeWS))

	authn := middleware.JWTAuth(jwtMgr, rdb, logger)
	loginLimit := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger)
	adminOnly := middleware.RoleAuth(jwt.RoleAdmin)
	userOnly := middleware.RoleAuth(jwt.RoleUser)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/admin/login", loginLimit, h.Auth.AdminLogin)
			auth.POST("/logout", authn, h.Auth.Logout)
		}

		admin := api.Group("/admin", authn, adminOnly)
		{
			admin.GET("/users", h.Roster.ListUsers)

			admin.GET("/students", h.Roster.ListStudents)
			admin.POST("/students", h.Roster.CreateStudent)
			admin.POST("/students/bulk", h.Roster.BulkCreateStudents)
			admin.POST("/students/import", h.Roster.ImportStudents)

			admin.GET("/positions", h.Election.ListPositions)
			admin.POST("/positions", h.Election.CreatePosition)

			admin.GET("/contestants", h.Election.ListContestants)
			admin.POST("/contestants", h.Election.CreateContestant)
			admin.PUT("/contestants/:id/verify", h.Election.VerifyContestant)

			admin.GET("/votes", h.Vote.ListVotes)
			admin.PUT("/votes/:id/cancel", h.Vote.CancelVote)
			admin.GET("/logs/voters", h.Vote.VoterLogs)

			admin.GET("/settings", h.Setting.GetSettings)
			admin.PUT("/settings", h.Setting.UpdateSetting)
			admin.POST("/settings/toggle-registration", h.Setting.ToggleRegistration)
			admin.POST("/settings/toggle-voting", h.Setting.ToggleVoting)
			admin.POST("/settings/end-voting", h.Setting.EndVoting)
		}

		voting := api.Group("/voting", authn, userOnly)
		{
			voting.GET("/positions", h.Voting.Ballot)
			voting.GET("/status", h.Voting.Status)
			voting.POST("/submit", h.Voting.Submit)
		}

		results := api.Group("/results")
		{
			results.GET("/realtime", h.Result.Realtime)
			results.GET("/detailed", authn, adminOnly, h.Result.Detailed)
			results.GET("/export", authn, adminOnly, h.Result.Export)
		}

		announcements := api.Group("/announcements")
		{
			announcements.GET("", h.Announcement.List)
			announcements.POST("", authn, adminOnly, h.Announcement.Create)
		}

		user := api.Group("/user", authn, userOnly)
		{
			user.GET("/profile", h.User.GetProfile)
			user.POST("/profile/picture", h.User.UploadPicture)
			user.POST("/report", h.User.Report)
		}
	}

	return r
}
