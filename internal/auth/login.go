package auth

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/postadmin/internal/service"
)

const (
	// DefaultRedirect is used when no usable redirect target was given.
	DefaultRedirect = "/posts"

	MessageLoginFailed   = "Login failed"
	MessageNoAdminAccess = "You do not have admin access"
	MessageUnavailable   = "Login failed: authentication service unavailable"
)

// LoginState 登录页状态机：Idle → Submitting → {Success, Failed}
type LoginState int

const (
	LoginIdle LoginState = iota
	LoginSubmitting
	LoginSuccess
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginIdle:
		return "idle"
	case LoginSubmitting:
		return "submitting"
	case LoginSuccess:
		return "success"
	case LoginFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoginResult is the terminal state of one submission.
type LoginResult struct {
	State   LoginState
	Message string
	Session *Session
}

// LoginFlow drives one login form submission.
type LoginFlow struct {
	store  SessionStore
	admins AdminChecker
	state  LoginState
}

// NewLoginFlow starts in Idle.
func NewLoginFlow(store SessionStore, admins AdminChecker) *LoginFlow {
	return &LoginFlow{store: store, admins: admins, state: LoginIdle}
}

// State returns the current state.
func (f *LoginFlow) State() LoginState {
	return f.state
}

// Submit signs in, then checks admin membership. A signed-in account without
// membership is signed out again before the failure is reported.
func (f *LoginFlow) Submit(ctx context.Context, email, password string) LoginResult {
	f.state = LoginSubmitting

	session, err := f.store.SignIn(ctx, email, password)
	if err != nil || session == nil {
		return f.fail(signInMessage(err))
	}

	if !f.admins.IsAdmin(ctx, session.UserID) {
		if err := f.store.SignOut(); err != nil {
			slog.Warn("revert non-admin session failed", "user_id", session.UserID, "err", err)
		}
		return f.fail(MessageNoAdminAccess)
	}

	f.state = LoginSuccess
	return LoginResult{State: LoginSuccess, Session: session}
}

func (f *LoginFlow) fail(message string) LoginResult {
	f.state = LoginFailed
	return LoginResult{State: LoginFailed, Message: message}
}

func signInMessage(err error) string {
	if service.IsTransport(err) {
		return MessageUnavailable
	}
	return MessageLoginFailed
}

// SafeRedirect 只接受站内绝对路径，其余情况回退到 /posts。
func SafeRedirect(raw string) string {
	target := strings.TrimSpace(raw)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return DefaultRedirect
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return DefaultRedirect
	}
	if parsed.Path == LoginPath {
		return DefaultRedirect
	}
	return target
}
