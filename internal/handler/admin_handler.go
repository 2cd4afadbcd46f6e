package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/auth"
	"github.com/postadmin/internal/service"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Redirect string `form:"redirect"`
}

// ShowLoginPage 渲染登录页面。已有会话时先复核管理员身份再跳转。
func (a *API) ShowLoginPage(c *gin.Context) {
	target := auth.SafeRedirect(c.Query("redirect"))
	sc := auth.Current(c)

	_, err := auth.Authorize(c.Request.Context(), sc, a.admins)
	if err == nil {
		c.Redirect(http.StatusFound, target)
		return
	}
	if errors.Is(err, auth.ErrNotAdmin) {
		if signOutErr := sc.SignOut(); signOutErr != nil {
			slog.Warn("sign out stale session failed", "err", signOutErr)
		}
	}

	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":    "Admin Login",
		"redirect": target,
	})
}

// Login handles the login form submission.
func (a *API) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderHTML(c, http.StatusBadRequest, "login.html", gin.H{
			"title": "Admin Login",
			"error": auth.MessageLoginFailed,
		})
		return
	}

	target := auth.SafeRedirect(form.Redirect)
	result := auth.NewLoginFlow(auth.Current(c), a.admins).
		Submit(c.Request.Context(), strings.TrimSpace(form.Email), form.Password)

	if result.State != auth.LoginSuccess {
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title":    "Admin Login",
			"error":    result.Message,
			"email":    form.Email,
			"redirect": target,
		})
		return
	}

	slog.Info("admin signed in", "user_id", result.Session.UserID)
	c.Redirect(http.StatusFound, target)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	if err := auth.Current(c).SignOut(); err != nil {
		slog.Warn("sign out failed", "err", err)
	}
	c.Redirect(http.StatusFound, auth.LoginPath)
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	data := gin.H{"title": "Dashboard"}

	counts, err := a.posts.Counts(c.Request.Context())
	if err != nil {
		data["error"] = service.UserMessage(err, "Failed to load statistics")
	}
	data["counts"] = counts

	admins, err := a.admins.List(c.Request.Context())
	if err != nil {
		data["error"] = service.UserMessage(err, "Failed to load users")
	}
	data["userCount"] = len(admins)

	a.renderHTML(c, http.StatusOK, "dashboard.html", data)
}

// ShowResources renders the resources placeholder page.
func (a *API) ShowResources(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "resources.html", gin.H{"title": "Resources"})
}

// ShowUsers lists accounts holding admin access.
func (a *API) ShowUsers(c *gin.Context) {
	data := gin.H{"title": "Users"}

	admins, err := a.admins.List(c.Request.Context())
	if err != nil {
		data["error"] = service.UserMessage(err, "Failed to load users")
	}
	data["admins"] = admins

	a.renderHTML(c, http.StatusOK, "users.html", data)
}

// ShowSettings renders the settings placeholder page.
func (a *API) ShowSettings(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "settings.html", gin.H{"title": "Settings"})
}
