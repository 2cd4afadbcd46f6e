package service

import (
	"context"
	"errors"
	"strings"

	"github.com/postadmin/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 扮演托管认证服务：账号、密码校验与分页列举。
type AuthService struct {
	db   *gorm.DB
	cost int
}

// NewAuthService creates an AuthService hashing passwords with bcrypt.DefaultCost.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb, cost: bcrypt.DefaultCost}
}

// SignInWithPassword checks email and password and returns the account.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*db.AuthUser, error) {
	normalized := normalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.AuthUser
	if err := s.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, transportError("sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CreateUser registers a new account. The email must not be taken.
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*db.AuthUser, error) {
	normalized := normalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrMissingInput
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.AuthUser{}).Where("email = ?", normalized).Count(&count).Error; err != nil {
		return nil, transportError("create user", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user := db.AuthUser{Email: normalized, PasswordHash: string(hashed)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, transportError("create user", err)
	}
	return &user, nil
}

// ListUsers returns one 1-based page of accounts in creation order.
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) ([]db.AuthUser, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 50
	}

	var users []db.AuthUser
	if err := s.db.WithContext(ctx).
		Order("created_at asc, id asc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		return nil, transportError("list users", err)
	}
	return users, nil
}

// GetUser fetches an account by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*db.AuthUser, error) {
	var user db.AuthUser
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, transportError("get user", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
