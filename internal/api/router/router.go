package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anmolm-9/Question-Paper2/config"
	"github.com/anmolm-9/Question-Paper2/internal/api/handler"
	"github.com/anmolm-9/Question-Paper2/internal/api/middleware"
	"github.com/anmolm-9/Question-Paper2/internal/service"
	"github.com/anmolm-9/Question-Paper2/pkg/jwt"
	"github.com/anmolm-9/Question-Paper2/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	svc *service.Service,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.LoadHTMLGlob("web/templates/*.html")

	cookieName := cfg.Auth.Cookie.Name
	requireAuth := middleware.SessionAuth(cookieName, jwtMgr, svc.Auth)
	requireAuthWeb := middleware.SessionAuthWeb(cookieName, jwtMgr, svc.Auth)
	optionalAuth := middleware.OptionalSession(cookieName, jwtMgr, svc.Auth)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxSizeMB << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── JSON API ──
	api := r.Group("/api")
	{
		courses := api.Group("/courses")
		{
			courses.GET("/", h.Course.List)
			courses.GET("/:id", h.Course.Get)
			courses.POST("/", requireAuth, middleware.AdminOnly(), h.Course.Create)
			courses.PUT("/:id", requireAuth, middleware.AdminOnly(), h.Course.Update)
			courses.DELETE("/:id", requireAuth, middleware.AdminOnly(), h.Course.Delete)
		}

		papers := api.Group("/papers")
		{
			papers.GET("/", h.Paper.List)
			papers.GET("/years", h.Paper.Years)
			papers.GET("/subjects", h.Paper.Subjects)
			papers.GET("/export", requireAuth, middleware.AdminOnly(), h.Paper.Export)
			papers.GET("/:id", h.Paper.Get)
			papers.POST("/", requireAuth, middleware.AdminOnly(), h.Paper.Upload)
			papers.PUT("/:id", requireAuth, middleware.AdminOnly(), h.Paper.Update)
			papers.DELETE("/:id", requireAuth, middleware.AdminOnly(), h.Paper.Delete)
		}

		users := api.Group("/users")
		{
			// 公开注册限流，防止批量注册
			users.POST("/", middleware.RateLimit(rdb, 10, time.Minute), h.User.Register)
			users.GET("/profile", requireAuth, h.User.Profile)
			users.PUT("/profile", requireAuth, h.User.UpdateProfile)
			users.GET("/", requireAuth, middleware.AdminOnly(), h.User.List)
			users.PUT("/:id", requireAuth, middleware.AdminOnly(), h.User.Update)
			users.DELETE("/:id", requireAuth, middleware.AdminOnly(), h.User.Delete)
		}
	}

	// ── 认证页面 ──
	auth := r.Group("/auth")
	{
		loginLimit := middleware.RateLimit(rdb, 10, time.Minute)
		auth.GET("/login", h.Auth.ShowLogin)
		auth.POST("/login", loginLimit, h.Auth.Login)
		auth.GET("/register", h.Auth.ShowRegister)
		auth.POST("/register", loginLimit, h.Auth.Register)
		auth.GET("/logout", optionalAuth, h.Auth.Logout)
	}

	// ── 浏览页面 ──
	r.GET("/", optionalAuth, h.Web.Home)
	r.GET("/courses/:code", requireAuthWeb, h.Web.CoursePapers)
	r.GET("/year-papers", requireAuthWeb, h.Web.YearPapers)
	r.GET("/download/:id", requireAuthWeb, h.Web.Download)

	// ── 管理面板 ──
	admin := r.Group("/admin")
	admin.Use(requireAuthWeb, middleware.AdminOnlyWeb())
	{
		admin.GET("", h.Admin.Dashboard)
		admin.POST("/courses", h.Admin.AddCourse)
		admin.POST("/papers", h.Admin.UploadPaper)
		admin.POST("/papers/:id/delete", h.Admin.DeletePaper)
	}

	// ── 404 ──
	r.NoRoute(func(c *gin.Context) {
		c.HTML(404, "404.html", gin.H{})
	})

	return r
}
