package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/api/handler"
	"sai-tutoria/internal/api/middleware"
	"sai-tutoria/internal/model"
	"sai-tutoria/pkg/jwt"
	"sai-tutoria/pkg/redis"
)

const (
	maxJSONBody     = 1 << 20
	uploadRoute     = "/api/v1/documents"
	multipartMargin = 1 << 20
)

// Setup builds the gin engine. rdb may be nil; token revocation and login
// rate limiting are then disabled.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		checker middleware.TokenChecker
		limiter middleware.Limiter
	)
	if rdb != nil {
		checker = rdb
		limiter = rdb
	}

	uploadMax := cfg.Storage.MaxUploadMB<<20 + multipartMargin

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxJSONBody, map[string]int64{uploadRoute: uploadMax}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleCoordinator)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login",
			middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute, logger),
			h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			users := authorized.Group("/users", adminOnly)
			{
				users.GET("/roles", h.User.Roles)
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.POST("", h.User.Create)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
			}

			ref := authorized.Group("/reference")
			{
				ref.GET("/periods", h.Reference.Periods)
				ref.GET("/levels", h.Reference.Levels)
				ref.GET("/sections", h.Reference.Sections)
				ref.GET("/subjects", h.Reference.Subjects)
				ref.GET("/teachers", h.Reference.Teachers)
				ref.GET("/students", h.Reference.Students)
				ref.GET("/cache/stats", adminOnly, h.Reference.CacheStats)
				ref.POST("/cache/clear", adminOnly, h.Reference.ClearCache)
			}

			authorized.GET("/settings/tutoring", h.Settings.Get)
			authorized.PUT("/settings/tutoring", adminOnly, h.Settings.Update)

			grades := authorized.Group("/grades")
			{
				grades.GET("", h.Grade.List)
				grades.POST("", staff, h.Grade.Create)
				grades.PUT("/:id", staff, h.Grade.Update)
				grades.DELETE("/:id", staff, h.Grade.Delete)
			}

			tutoring := authorized.Group("/tutoring")
			{
				tutoring.GET("/candidates", staff, h.Assignment.Candidates)
				tutoring.GET("/assignments", staff, h.Assignment.List)
				tutoring.POST("/assignments", staff, h.Assignment.Create)
				tutoring.DELETE("/assignments/:id", staff, h.Assignment.Archive)
				tutoring.POST("/assignments/:id/notify", staff, h.Assignment.Notify)
				tutoring.GET("/assignments/:id/notifications", staff, h.Assignment.Notifications)

				// ownership of records and sessions is checked per record
				tutoring.POST("/records", h.Tutoring.Register)
				tutoring.GET("/records/:id", h.Tutoring.Get)
				tutoring.PUT("/records/:id", h.Tutoring.Update)
				tutoring.GET("/records/:id/progress", h.Tutoring.Progress)
				tutoring.GET("/records/:id/sessions", h.Tutoring.ListSessions)
				tutoring.POST("/records/:id/sessions", h.Tutoring.AppendSession)
				tutoring.PUT("/sessions/:id", h.Tutoring.UpdateSession)
				tutoring.PATCH("/sessions/:id/status", h.Tutoring.TransitionSession)
				tutoring.DELETE("/sessions/:id", h.Tutoring.DeleteSession)

				tutoring.GET("/statuses", h.Tutoring.Statuses)
				tutoring.GET("/my-students", middleware.RoleAuth(model.RoleTeacher), h.Tutoring.MyStudents)
				tutoring.GET("/stats", staff, h.Tutoring.Stats)
			}

			cron := authorized.Group("/cronograma")
			{
				cron.GET("/document-types", h.Cronograma.ListDocumentTypes)
				cron.POST("/document-types", staff, h.Cronograma.CreateDocumentType)
				cron.PUT("/document-types/:id", staff, h.Cronograma.UpdateDocumentType)
				cron.DELETE("/document-types/:id", staff, h.Cronograma.DeleteDocumentType)

				cron.GET("/entries", h.Cronograma.ListEntries)
				cron.POST("/entries", staff, h.Cronograma.CreateEntry)
				cron.PUT("/entries/:id", staff, h.Cronograma.UpdateEntry)
				cron.DELETE("/entries/:id", staff, h.Cronograma.DeleteEntry)

				cron.GET("/grouped", h.Cronograma.Grouped)
			}

			authorized.GET("/export/cronograma.pdf", h.Export.CronogramaPDF)
			authorized.GET("/export/cronograma.xlsx", h.Export.CronogramaExcel)

			authorized.POST("/documents", middleware.RoleAuth(model.RoleTeacher), h.Document.Upload)
			authorized.GET("/documents", h.Document.List)
		}
	}

	return r
}
