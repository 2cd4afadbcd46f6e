package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthorized visitors are sent.
const LoginPath = "/login"

// DefaultProtectedPrefixes are guarded when no prefixes are configured.
var DefaultProtectedPrefixes = []string{"/posts"}

// Guard redirects anonymous and non-admin visitors away from protected paths.
type Guard struct {
	admins   AdminChecker
	prefixes []string
}

// NewGuard normalizes prefixes ("posts/" becomes "/posts").
func NewGuard(admins AdminChecker, prefixes []string) *Guard {
	normalized := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		p := strings.TrimRight(strings.TrimSpace(prefix), "/")
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		normalized = append(normalized, p)
	}
	if len(normalized) == 0 {
		normalized = append(normalized, DefaultProtectedPrefixes...)
	}
	return &Guard{admins: admins, prefixes: normalized}
}

// IsProtected reports whether path is a protected prefix or below one.
func (g *Guard) IsProtected(path string) bool {
	for _, prefix := range g.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Middleware re-validates session and membership on every protected request.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.IsProtected(c.Request.URL.Path) {
			c.Next()
			return
		}
		g.require(c)
	}
}

// Require guards every route it is attached to, whatever the prefix set.
func (g *Guard) Require() gin.HandlerFunc {
	return g.require
}

func (g *Guard) require(c *gin.Context) {
	if _, err := Authorize(c.Request.Context(), Current(c), g.admins); err != nil {
		slog.Info("guard denied request", "path", c.Request.URL.Path, "reason", err.Error())
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.Next()
}

// LoginURL builds /login?redirect=<target>.
func LoginURL(target string) string {
	if target == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(target)
}
