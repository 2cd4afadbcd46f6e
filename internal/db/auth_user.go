package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthUser 是认证服务持有的登录账号。
// Email 统一以小写存储，PasswordHash 为 bcrypt 哈希。
type AuthUser struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定自定义表名。
func (AuthUser) TableName() string {
	return "auth_users"
}

// BeforeCreate assigns an opaque identifier when none was provided.
func (u *AuthUser) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
