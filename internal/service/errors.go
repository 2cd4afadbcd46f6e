package service

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidStatus       = errors.New("status must be Draft, Published or Archived")
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("a user with this email address has already been registered")
	ErrMissingInput        = errors.New("email, password and passcode are required")
	ErrInvalidEmail        = errors.New("email address is invalid")
	ErrUserLookupExhausted = errors.New("unable to find existing user with that email")
)

// TransportError 表示存储或认证服务调用失败（不可达、约束冲突等）。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err came from a failed store call.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	slog.Warn("store call failed", "op", op, "err", err)
	return &TransportError{Op: op, Err: err}
}

// UserMessage 将错误转换为可以直接展示给用户的一句话。
// 已知的业务错误原样返回，其余（包括存储失败）使用 fallback。
func UserMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrMissingInput),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrUserLookupExhausted):
		return err.Error()
	default:
		return fallback
	}
}
