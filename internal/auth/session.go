// Package auth holds the request-scoped session context, the admin route
// guard and the login state machine.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/db"
)

const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"

	contextKey = "__auth_session"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrNotAdmin  = errors.New("you do not have admin access")
)

// Session 是认证服务签发的会话在应用内的只读视图。
type Session struct {
	UserID string
	Email  string
}

// Authenticator verifies credentials against the auth service.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*db.AuthUser, error)
}

// AdminChecker answers the admin membership question.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) bool
}

// SessionStore is the surface the guard and login screen depend on.
type SessionStore interface {
	GetSession() (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut() error
}

// SessionContext is the single source of truth for the current visitor's
// session during one request. It is backed by the signed session cookie.
type SessionContext struct {
	cookie  sessions.Session
	auth    Authenticator
	current *Session
	loaded  bool
}

// Sessions 中间件为每个请求挂载 SessionContext，须注册在 sessions.Sessions 之后。
func Sessions(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, &SessionContext{cookie: sessions.Default(c), auth: auth})
		c.Next()
	}
}

// Current returns the SessionContext attached by Sessions.
func Current(c *gin.Context) *SessionContext {
	return c.MustGet(contextKey).(*SessionContext)
}

// GetSession returns the active session, or nil when the visitor is anonymous.
func (s *SessionContext) GetSession() (*Session, error) {
	if s.loaded {
		return s.current, nil
	}
	s.loaded = true

	userID, _ := s.cookie.Get(sessionKeyUserID).(string)
	if userID == "" {
		return nil, nil
	}
	email, _ := s.cookie.Get(sessionKeyEmail).(string)
	s.current = &Session{UserID: userID, Email: email}
	return s.current, nil
}

// SignIn verifies credentials and, on success, replaces the cookie session.
func (s *SessionContext) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if s.auth == nil {
		return nil, errors.New("authenticator not configured")
	}

	user, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoSession
	}

	s.cookie.Clear()
	s.cookie.Set(sessionKeyUserID, user.ID)
	s.cookie.Set(sessionKeyEmail, user.Email)
	if err := s.cookie.Save(); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.current = &Session{UserID: user.ID, Email: user.Email}
	s.loaded = true
	return s.current, nil
}

// SignOut clears the cookie session and the cached view.
func (s *SessionContext) SignOut() error {
	s.cookie.Clear()
	s.current = nil
	s.loaded = true
	if err := s.cookie.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Authorize 先解析会话再校验管理员身份，任何异常都按拒绝处理。
func Authorize(ctx context.Context, store SessionStore, admins AdminChecker) (*Session, error) {
	session, err := store.GetSession()
	if err != nil || session == nil {
		return nil, ErrNoSession
	}
	if !admins.IsAdmin(ctx, session.UserID) {
		return session, ErrNotAdmin
	}
	return session, nil
}
