package service

import (
	"context"
	"errors"
	"time"

	"github.com/postadmin/internal/db"
	"gorm.io/gorm"
)

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostCounts 汇总仪表盘展示的文章数量。
type PostCounts struct {
	Total     int64
	Published int64
	Drafts    int64
	Archived  int64
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// ListAll returns all posts ordered by created time descending.
func (s *PostService) ListAll(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, transportError("list posts", err)
	}
	return posts, nil
}

// Get fetches a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, transportError("get post", err)
	}
	return &post, nil
}

// Create derives slug and read time, stamps the record and inserts it.
func (s *PostService) Create(ctx context.Context, form PostForm) (*db.Post, error) {
	form, err := form.validate()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := db.Post{
		Title:       form.Title,
		Slug:        Slugify(form.Title),
		Content:     form.Content,
		Excerpt:     form.Excerpt,
		Category:    form.Category,
		Status:      form.Status,
		Author:      form.Author,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: nextPublishedAt(nil, form.Status, now),
		ReadTime:    ComputeReadTime(form.Content),
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, transportError("create post", err)
	}
	return &post, nil
}

// Update 覆盖文章的可编辑字段并重新计算派生字段。
// 没有乐观锁：并发编辑以最后一次写入为准。
func (s *PostService) Update(ctx context.Context, id string, form PostForm) (*db.Post, error) {
	form, err := form.validate()
	if err != nil {
		return nil, err
	}

	var post db.Post
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return err
		}

		now := s.now().UTC()
		post.Title = form.Title
		post.Slug = Slugify(form.Title)
		post.Content = form.Content
		post.Excerpt = form.Excerpt
		post.Category = form.Category
		post.Author = form.Author
		post.PublishedAt = nextPublishedAt(post.PublishedAt, form.Status, now)
		post.Status = form.Status
		post.UpdatedAt = now
		post.ReadTime = ComputeReadTime(form.Content)

		return tx.Save(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, transportError("update post", err)
	}
	return &post, nil
}

// Counts returns per-status totals.
func (s *PostService) Counts(ctx context.Context) (PostCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&db.Post{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return PostCounts{}, transportError("count posts", err)
	}

	var counts PostCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case db.PostStatusPublished:
			counts.Published = row.Count
		case db.PostStatusArchived:
			counts.Archived = row.Count
		default:
			counts.Drafts += row.Count
		}
	}
	return counts, nil
}

// nextPublishedAt keeps an existing publish time while the post stays
// Published, stamps now on the first publish and clears it otherwise.
func nextPublishedAt(current *time.Time, status string, now time.Time) *time.Time {
	if status != db.PostStatusPublished {
		return nil
	}
	if current != nil {
		kept := *current
		return &kept
	}
	stamped := now
	return &stamped
}
