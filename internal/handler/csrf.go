package handler

import (
	"crypto/sha256"
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
	"github.com/gin-gonic/gin"
)

// MessageCrossOrigin is returned when a cross-site form post is rejected.
const MessageCrossOrigin = "Forbidden - cross-origin request rejected"

// CrossOriginProtection 基于 Fetch metadata 头拒绝跨站的非安全方法请求。
// trustedOrigins 为 host:port 形式，不带协议。
func CrossOriginProtection(secret string, trustedOrigins []string) gin.HandlerFunc {
	key := sha256.Sum256([]byte(secret))
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(crossOriginRejected))}
	if len(trustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trustedOrigins))
	}
	protect := csrf.Protect(key[:], opts...)

	return func(c *gin.Context) {
		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

func crossOriginRejected(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("cross-origin request rejected",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, MessageCrossOrigin, http.StatusForbidden)
}
