package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/auth"
	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	posts   *service.PostService
	admins  *service.AdminService
	auth    *service.AuthService
	guard   *auth.Guard
	limiter *LoginLimiter
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	admins := service.NewAdminService(gdb, cfg.PasscodeCost)

	return &API{
		db:      gdb,
		posts:   service.NewPostService(gdb),
		admins:  admins,
		auth:    service.NewAuthService(gdb),
		guard:   auth.NewGuard(admins, cfg.ProtectedPrefixes),
		limiter: NewLoginLimiter(cfg.LoginRateLimit, cfg.LoginBurst),
	}
}

// Sessions attaches the per-request session context.
func (a *API) Sessions() gin.HandlerFunc {
	return auth.Sessions(a.auth)
}

// Guard returns the admin route guard middleware.
func (a *API) Guard() gin.HandlerFunc {
	return a.guard.Middleware()
}

// RequireAdmin guards a route group unconditionally.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return a.guard.Require()
}

// renderHTML 在渲染模板时附加当前登录用户与导航信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["currentUser"]; !exists {
		if session, err := auth.Current(c).GetSession(); err == nil && session != nil {
			payload["currentUser"] = session
		}
	}
	if _, exists := payload["nav"]; !exists {
		payload["nav"] = navItems(c.Request.URL.Path)
	}

	c.HTML(status, template, payload)
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

func navItems(path string) []navItem {
	items := []navItem{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Posts", Href: "/posts"},
		{Label: "Resources", Href: "/resources"},
		{Label: "Users", Href: "/users"},
		{Label: "Settings", Href: "/settings"},
	}
	for i := range items {
		items[i].Active = path == items[i].Href || strings.HasPrefix(path, items[i].Href+"/")
	}
	return items
}
