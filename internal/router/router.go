package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.Use(handler.CrossOriginProtection(cfg.SessionSecret, cfg.TrustedOrigins))

	api := handler.NewAPI(gdb, cfg)
	r.Use(api.Sessions(), api.Guard())

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"formatTime": formatTime,
	})
	if cfg.TemplateGlob != "" {
		r.LoadHTMLGlob(cfg.TemplateGlob)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/posts")
	})

	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.LoginThrottle(), api.Login)
	r.GET("/logout", api.Logout)
	r.POST("/logout", api.Logout)

	// 受保护前缀由 Guard 中间件统一拦截
	posts := r.Group("/posts")
	{
		posts.GET("", api.ShowPostList)
		posts.GET("/new", api.ShowPostNew)
		posts.POST("", api.CreatePost)
		posts.GET("/:id/edit", api.ShowPostEdit)
		posts.POST("/:id", api.UpdatePost)
		posts.GET("/:id/preview", api.ShowPostPreview)

		// API路由
		jsonAPI := posts.Group("/api")
		{
			jsonAPI.GET("", api.GetPosts)
			jsonAPI.POST("", api.CreatePostJSON)
			jsonAPI.GET("/:id", api.GetPost)
			jsonAPI.PUT("/:id", api.UpdatePostJSON)
		}
	}

	// 后台页面始终需要管理员会话，不受 PROTECTED_PREFIXES 影响
	backOffice := r.Group("")
	backOffice.Use(api.RequireAdmin())
	{
		backOffice.GET("/dashboard", api.ShowDashboard)
		backOffice.GET("/resources", api.ShowResources)
		backOffice.GET("/users", api.ShowUsers)
		backOffice.GET("/settings", api.ShowSettings)
	}

	return r
}

// formatTime 用于模板，未发布等空时间返回 "—"。
func formatTime(value interface{}) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return "—"
		}
		t = *v
	default:
		return "—"
	}
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("2006-01-02 15:04")
}
