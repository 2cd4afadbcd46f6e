package service

import (
	"context"

	"github.com/postadmin/internal/db"
)

// PostStore is the subset of PostService the collection talks to.
type PostStore interface {
	ListAll(ctx context.Context) ([]db.Post, error)
	Create(ctx context.Context, form PostForm) (*db.Post, error)
	Update(ctx context.Context, id string, form PostForm) (*db.Post, error)
}

// PostCollection 是单个会话持有的文章列表。
// 只在一个请求/会话内使用，不做并发保护。
type PostCollection struct {
	store PostStore
	posts []db.Post
}

// NewPostCollection creates an empty collection backed by store.
func NewPostCollection(store PostStore) *PostCollection {
	return &PostCollection{store: store}
}

// Load replaces the in-memory list with every post, newest first.
// On failure the current list is left untouched.
func (c *PostCollection) Load(ctx context.Context) error {
	posts, err := c.store.ListAll(ctx)
	if err != nil {
		return err
	}
	c.posts = posts
	return nil
}

// Posts returns the in-memory list.
func (c *PostCollection) Posts() []db.Post {
	return c.posts
}

// Filter applies FilterPosts to the in-memory list.
func (c *PostCollection) Filter(query string) []db.Post {
	return FilterPosts(c.posts, query)
}

// Create inserts a post and prepends the stored record.
func (c *PostCollection) Create(ctx context.Context, form PostForm) (*db.Post, error) {
	post, err := c.store.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	c.posts = append([]db.Post{*post}, c.posts...)
	return post, nil
}

// Update saves a post and swaps the matching entry for the stored record.
func (c *PostCollection) Update(ctx context.Context, id string, form PostForm) (*db.Post, error) {
	post, err := c.store.Update(ctx, id, form)
	if err != nil {
		return nil, err
	}
	for i := range c.posts {
		if c.posts[i].ID == id {
			c.posts[i] = *post
		}
	}
	return post, nil
}
