package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// PostStatusDraft 表示草稿。
	PostStatusDraft = "Draft"
	// PostStatusPublished 表示已发布。
	PostStatusPublished = "Published"
	// PostStatusArchived 表示已归档。
	PostStatusArchived = "Archived"
)

// Post 定义了文章模型
// 时间戳由服务层显式写入，关闭 gorm 的自动时间戳以保证发布时间语义。
type Post struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"size:255;index" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Category    string     `gorm:"size:100" json:"category"`
	Status      string     `gorm:"size:20;index" json:"status"`
	Author      string     `gorm:"size:255" json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `gorm:"index;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
	ReadTime    string     `gorm:"size:32" json:"read_time"`
}

// BeforeCreate assigns an opaque identifier when none was provided.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublished reports whether the post is currently live.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
