package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/postadmin/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPasscodeCost 是后台口令的 bcrypt 成本因子。
const DefaultPasscodeCost = 10

// AdminService reads and provisions admin_users rows.
type AdminService struct {
	db   *gorm.DB
	cost int
	now  func() time.Time
}

// NewAdminService creates an AdminService. A cost outside bcrypt's range
// falls back to DefaultPasscodeCost.
func NewAdminService(gdb *gorm.DB, passcodeCost int) *AdminService {
	if passcodeCost < bcrypt.MinCost || passcodeCost > bcrypt.MaxCost {
		passcodeCost = DefaultPasscodeCost
	}
	return &AdminService{db: gdb, cost: passcodeCost, now: time.Now}
}

// IsAdmin 判断 userID 是否在 admin_users 中。查询失败与无记录同样视为无权限。
func (s *AdminService) IsAdmin(ctx context.Context, userID string) bool {
	if strings.TrimSpace(userID) == "" {
		return false
	}

	var row db.AdminUser
	err := s.db.WithContext(ctx).Select("id").Where("id = ?", userID).Take(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("admin membership lookup failed", "user_id", userID, "err", err)
		}
		return false
	}
	return true
}

// Upsert hashes passcode and inserts or refreshes the admin row keyed by id.
func (s *AdminService) Upsert(ctx context.Context, id, email, passcode string) (*db.AdminUser, error) {
	if strings.TrimSpace(id) == "" || passcode == "" {
		return nil, ErrMissingInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), s.cost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	row := db.AdminUser{
		ID:           id,
		Email:        normalizeEmail(email),
		PasscodeHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "passcode_hash", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return nil, transportError("upsert admin user", err)
	}
	return &row, nil
}

// List returns every admin row ordered by email.
func (s *AdminService) List(ctx context.Context) ([]db.AdminUser, error) {
	var admins []db.AdminUser
	if err := s.db.WithContext(ctx).Order("email asc").Find(&admins).Error; err != nil {
		return nil, transportError("list admin users", err)
	}
	return admins, nil
}
