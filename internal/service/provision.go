package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/postadmin/internal/db"
)

const (
	provisionMaxPages = 10
	provisionPerPage  = 200
)

// ProvisionInput 是初始化管理员所需的三个参数。
type ProvisionInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Passcode string `validate:"required"`
}

// ProvisionResult describes the account that was granted admin access.
type ProvisionResult struct {
	UserID      string
	Email       string
	CreatedUser bool
}

// Provisioner creates-or-finds an auth account and upserts its admin row.
type Provisioner struct {
	auth     *AuthService
	admins   *AdminService
	validate *validator.Validate
	maxPages int
	perPage  int
}

// NewProvisioner wires a Provisioner over the given services.
func NewProvisioner(auth *AuthService, admins *AdminService) *Provisioner {
	return &Provisioner{
		auth:     auth,
		admins:   admins,
		validate: validator.New(),
		maxPages: provisionMaxPages,
		perPage:  provisionPerPage,
	}
}

// Run provisions one admin account.
func (p *Provisioner) Run(ctx context.Context, input ProvisionInput) (*ProvisionResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" || input.Passcode == "" {
		return nil, ErrMissingInput
	}
	if err := p.validate.Struct(input); err != nil {
		return nil, ErrInvalidEmail
	}

	created := true
	user, err := p.auth.CreateUser(ctx, input.Email, input.Password)
	if err != nil {
		slog.Warn("create user failed, looking up existing account", "email", input.Email, "err", err)
		created = false
		user, err = p.findByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.admins.Upsert(ctx, user.ID, user.Email, input.Passcode); err != nil {
		return nil, fmt.Errorf("failed to upsert admin_users row: %w", err)
	}

	return &ProvisionResult{UserID: user.ID, Email: user.Email, CreatedUser: created}, nil
}

// findByEmail 逐页扫描账号列表，页数有上限。
func (p *Provisioner) findByEmail(ctx context.Context, email string) (*db.AuthUser, error) {
	for page := 1; page <= p.maxPages; page++ {
		users, err := p.auth.ListUsers(ctx, page, p.perPage)
		if err != nil {
			return nil, fmt.Errorf("list users failed: %w", err)
		}
		for i := range users {
			if strings.EqualFold(users[i].Email, email) {
				return &users[i], nil
			}
		}
		if len(users) < p.perPage {
			break
		}
	}
	return nil, ErrUserLookupExhausted
}

// IsProvisionInputError reports whether err was caused by bad CLI input.
func IsProvisionInputError(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrInvalidEmail)
}
