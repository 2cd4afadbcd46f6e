package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/db"
	"github.com/postadmin/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.AppConfig{
		SessionSecret:     "test-secret",
		SessionName:       "postadmin_session",
		SessionMaxAge:     3600,
		TemplateGlob:      "../../web/template/admin/*.html",
		ProtectedPrefixes: []string{"/posts"},
		PasscodeCost:      bcrypt.MinCost,
	}
	return SetupRouter(gdb, cfg), gdb
}

func serve(r *gin.Engine, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r, _ := setupRouterTest(t)

	ping := serve(r, http.MethodGet, "/ping", nil, nil)
	if ping.Code != http.StatusOK || !strings.Contains(ping.Body.String(), "pong") {
		t.Fatalf("unexpected ping response: %d %s", ping.Code, ping.Body.String())
	}

	root := serve(r, http.MethodGet, "/", nil, nil)
	if root.Code != http.StatusFound || root.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d %q", root.Code, root.Header().Get("Location"))
	}

	login := serve(r, http.MethodGet, "/login?redirect=%2Fposts%2Fnew", nil, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("expected login page, got %d", login.Code)
	}
	if !strings.Contains(login.Body.String(), `name="redirect" value="/posts/new"`) {
		t.Fatalf("login page should carry redirect target, body: %s", login.Body.String())
	}
}

func TestPostsRequireLogin(t *testing.T) {
	r, _ := setupRouterTest(t)

	for _, target := range []string{"/posts", "/posts/new", "/posts/api"} {
		w := serve(r, http.MethodGet, target, nil, nil)
		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected redirect, got %d", target, w.Code)
		}
		want := "/login?redirect=" + url.QueryEscape(target)
		if got := w.Header().Get("Location"); got != want {
			t.Fatalf("%s: expected Location %q, got %q", target, want, got)
		}
	}
}

func TestBackOfficePagesRequireAdmin(t *testing.T) {
	r, gdb := setupRouterTest(t)
	if _, err := service.NewAdminService(gdb, bcrypt.MinCost).Upsert(context.Background(), "admin-id-123", "secret-admin@example.com", "1234"); err != nil {
		t.Fatalf("grant admin: %v", err)
	}

	for _, target := range []string{"/dashboard", "/users", "/resources", "/settings"} {
		w := serve(r, http.MethodGet, target, nil, nil)
		if w.Code != http.StatusFound {
			t.Fatalf("%s: expected redirect, got %d", target, w.Code)
		}
		want := "/login?redirect=" + url.QueryEscape(target)
		if got := w.Header().Get("Location"); got != want {
			t.Fatalf("%s: expected Location %q, got %q", target, want, got)
		}
		body := w.Body.String()
		if strings.Contains(body, "secret-admin@example.com") || strings.Contains(body, "admin-id-123") {
			t.Fatalf("%s: anonymous response leaked admin data: %s", target, body)
		}
	}
}

func TestAdminPagesRender(t *testing.T) {
	r, gdb := setupRouterTest(t)
	ctx := context.Background()

	user, err := service.NewAuthService(gdb).CreateUser(ctx, "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := service.NewAdminService(gdb, bcrypt.MinCost).Upsert(ctx, user.ID, user.Email, "1234"); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	post, err := service.NewPostService(gdb).Create(ctx, service.PostForm{
		Title:   "Router <Check>",
		Content: "**bold** text",
		Status:  db.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	login := serve(r, http.MethodPost, "/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"secret"},
	}, nil)
	if login.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got %d", login.Code)
	}
	cookies := login.Result().Cookies()

	pages := map[string]string{
		"/posts":                         "Router &lt;Check&gt;",
		"/posts?q=nothing-matches":       "No posts found.",
		"/posts/new":                     `action="/posts"`,
		"/posts/" + post.ID + "/edit":    `value="Published" selected`,
		"/posts/" + post.ID + "/preview": "<strong>bold</strong>",
		"/dashboard":                     "Admin users: 1",
		"/users":                         "admin@example.com",
		"/resources":                     "Resources",
		"/settings":                      "Settings",
	}
	for target, want := range pages {
		w := serve(r, http.MethodGet, target, nil, cookies)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("%s: expected body to contain %q, body: %s", target, want, w.Body.String())
		}
	}
}

func TestFormatTime(t *testing.T) {
	stamp := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	var nilTime *time.Time

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "value", input: stamp, expected: "2025-03-01 09:30"},
		{name: "pointer", input: &stamp, expected: "2025-03-01 09:30"},
		{name: "nil pointer", input: nilTime, expected: "—"},
		{name: "zero", input: time.Time{}, expected: "—"},
		{name: "other", input: "2025", expected: "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.input); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
