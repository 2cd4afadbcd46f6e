// seed_posts 为开发环境生成示例文章，posts 表非空时不做任何事。
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/postadmin/internal/config"
	"github.com/postadmin/internal/db"
	"github.com/postadmin/internal/service"
	"gorm.io/gorm"
)

var demoPosts = []service.PostForm{
	{
		Title:    "Building Fast Web Services in Go",
		Content:  "Go's concurrency model and small runtime make it a natural fit for **HTTP services**.\n\nThis post walks through router choice, connection handling and profiling a real handler under load.",
		Excerpt:  "Router choice, connection handling and profiling a real handler under load.",
		Category: "Engineering",
		Author:   "Editorial Team",
		Status:   db.PostStatusPublished,
	},
	{
		Title:    "Intro to AI for Product Teams",
		Content:  "A plain-language tour of what large models are good at, where they fail, and how to scope a first feature.",
		Excerpt:  "What models are good at and how to scope a first feature.",
		Category: service.DefaultCategory,
		Author:   "Editorial Team",
		Status:   db.PostStatusPublished,
	},
	{
		Title:    "SQLite Tuning Notes",
		Content:  "Indexes, WAL mode and transaction batching. Small changes that keep an embedded database responsive.",
		Excerpt:  "Indexes, WAL mode and transaction batching.",
		Category: "Engineering",
		Author:   "Ops",
		Status:   db.PostStatusDraft,
	},
	{
		Title:    "2023 Roadmap (Retired)",
		Content:  "Kept for reference. See the current roadmap for up to date plans.",
		Category: "News",
		Author:   "Editorial Team",
		Status:   db.PostStatusArchived,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	created, err := seedPosts(context.Background(), db.DB)
	if err != nil {
		log.Fatal("生成示例文章失败:", err)
	}
	if created == 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}
	fmt.Printf("已创建 %d 篇示例文章\n", created)
}

// seedPosts 通过 PostService 写入示例文章，保证 slug 等派生字段与后台一致。
func seedPosts(ctx context.Context, gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&db.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	posts := service.NewPostService(gdb)
	for i, form := range demoPosts {
		if _, err := posts.Create(ctx, form); err != nil {
			return i, fmt.Errorf("create %q: %w", form.Title, err)
		}
	}
	return len(demoPosts), nil
}
