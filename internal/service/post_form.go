package service

import (
	"strings"

	"github.com/postadmin/internal/db"
	"golang.org/x/text/cases"
)

// DefaultCategory 是新建文章时表单的默认分类。
const DefaultCategory = "AI"

// PostStatuses lists the accepted statuses in display order.
var PostStatuses = []string{db.PostStatusDraft, db.PostStatusPublished, db.PostStatusArchived}

// PostForm carries the editable fields of a post. Slug, read time and
// timestamps are always derived and never accepted from the client.
type PostForm struct {
	Title    string `form:"title" json:"title"`
	Content  string `form:"content" json:"content"`
	Excerpt  string `form:"excerpt" json:"excerpt"`
	Category string `form:"category" json:"category"`
	Author   string `form:"author" json:"author"`
	Status   string `form:"status" json:"status"`
}

// NewPostForm returns the blank form shown for a new post.
func NewPostForm() PostForm {
	return PostForm{Category: DefaultCategory, Status: db.PostStatusDraft}
}

// FormFromPost 用已有文章填充编辑表单，未知状态回退为 Draft。
func FormFromPost(post db.Post) PostForm {
	category := post.Category
	if category == "" {
		category = DefaultCategory
	}
	return PostForm{
		Title:    post.Title,
		Content:  post.Content,
		Excerpt:  post.Excerpt,
		Category: category,
		Author:   post.Author,
		Status:   NormalizeStatus(post.Status),
	}
}

// ParseStatus matches raw against the known statuses case-insensitively and
// returns the canonical spelling. An empty value means Draft.
func ParseStatus(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return db.PostStatusDraft, nil
	}
	for _, status := range PostStatuses {
		if strings.EqualFold(trimmed, status) {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// NormalizeStatus is ParseStatus with Draft as the fallback.
func NormalizeStatus(raw string) string {
	status, err := ParseStatus(raw)
	if err != nil {
		return db.PostStatusDraft
	}
	return status
}

func (f PostForm) validate() (PostForm, error) {
	if strings.TrimSpace(f.Title) == "" {
		return f, ErrTitleRequired
	}
	status, err := ParseStatus(f.Status)
	if err != nil {
		return f, err
	}
	f.Status = status
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = DefaultCategory
	}
	f.Author = strings.TrimSpace(f.Author)
	f.Excerpt = strings.TrimSpace(f.Excerpt)
	return f, nil
}

// FilterPosts keeps posts whose title, excerpt, category or author contains
// query, ignoring case. A blank query returns posts unchanged.
func FilterPosts(posts []db.Post, query string) []db.Post {
	q := strings.TrimSpace(query)
	if q == "" {
		return posts
	}

	fold := cases.Fold()
	needle := fold.String(q)

	matched := make([]db.Post, 0, len(posts))
	for _, post := range posts {
		for _, field := range [...]string{post.Title, post.Excerpt, post.Category, post.Author} {
			if strings.Contains(fold.String(field), needle) {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched
}
