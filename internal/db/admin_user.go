package db

import "time"

// AdminUser 标记拥有后台权限的账号，ID 与 AuthUser.ID 一致。
// 只由初始化脚本写入，应用本身只读。
type AdminUser struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255" json:"email"`
	PasscodeHash string    `gorm:"column:passcode_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 返回自定义表名，避免冲突
func (AdminUser) TableName() string {
	return "admin_users"
}
