package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingHTMLRender 记录最后一次渲染的模板名与数据，不输出任何内容。
type recordingHTMLRender struct {
	name string
	data gin.H
}

type recordingHTMLInstance struct {
	owner *recordingHTMLRender
	name  string
	data  interface{}
}

func (r *recordingHTMLRender) Instance(name string, data interface{}) render.Render {
	return &recordingHTMLInstance{owner: r, name: name, data: data}
}

func (r *recordingHTMLInstance) Render(http.ResponseWriter) error {
	r.owner.name = r.name
	r.owner.data, _ = r.data.(gin.H)
	return nil
}

func (r *recordingHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type handlerFixture struct {
	api      *API
	db       *gorm.DB
	router   *gin.Engine
	rendered *recordingHTMLRender
}

func setupHandlerTest(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := NewAPI(gdb, config.AppConfig{
		ProtectedPrefixes: []string{"/posts"},
		PasscodeCost:      bcrypt.MinCost,
	})

	rendered := &recordingHTMLRender{}
	router := gin.New()
	router.HTMLRender = rendered
	router.Use(sessions.Sessions("postadmin_session", cookie.NewStore([]byte("test-secret"))))
	router.Use(api.Sessions(), api.Guard())

	router.GET("/login", api.ShowLoginPage)
	router.POST("/login", api.LoginThrottle(), api.Login)
	router.POST("/logout", api.Logout)
	router.GET("/dashboard", api.RequireAdmin(), api.ShowDashboard)
	router.GET("/users", api.RequireAdmin(), api.ShowUsers)
	router.GET("/posts", api.ShowPostList)
	router.GET("/posts/new", api.ShowPostNew)
	router.POST("/posts", api.CreatePost)
	router.GET("/posts/:id/edit", api.ShowPostEdit)
	router.POST("/posts/:id", api.UpdatePost)
	router.GET("/posts/:id/preview", api.ShowPostPreview)
	router.GET("/posts/api", api.GetPosts)
	router.POST("/posts/api", api.CreatePostJSON)
	router.GET("/posts/api/:id", api.GetPost)
	router.PUT("/posts/api/:id", api.UpdatePostJSON)

	return &handlerFixture{api: api, db: gdb, router: router, rendered: rendered}
}

// seedAccount 直接写入账号，admin 为 true 时同时写入 admin_users。
func (f *handlerFixture) seedAccount(t *testing.T, email, password string, admin bool) db.AuthUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := db.AuthUser{Email: email, PasswordHash: string(hash)}
	if err := f.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if admin {
		if err := f.db.Create(&db.AdminUser{ID: user.ID, Email: email, PasscodeHash: "x"}).Error; err != nil {
			t.Fatalf("seed admin: %v", err)
		}
	}
	return user
}

func (f *handlerFixture) do(method, target string, body url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) doJSON(method, target, payload string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// login 提交登录表单并返回响应携带的会话 cookie。
func (f *handlerFixture) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	w := f.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got %d", w.Code)
	}
	return responseCookies(w)
}

// responseCookies 按名称保留最后一次 Set-Cookie，与浏览器行为一致。
func responseCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	order := []string{}
	for _, c := range w.Result().Cookies() {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}

	cookies := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookies = append(cookies, byName[name])
	}
	return cookies
}
