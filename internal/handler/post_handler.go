package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/service"
)

const (
	msgFetchPosts = "Failed to fetch posts"
	msgCreatePost = "Failed to create post"
	msgUpdatePost = "Failed to update post"
	msgInvalidReq = "Invalid request payload"

	noticeCreated = "Post created"
	noticeUpdated = "Post updated"
)

// ShowPostList 渲染文章管理列表页面，q 参数在内存中过滤。
func (a *API) ShowPostList(c *gin.Context) {
	collection := service.NewPostCollection(a.posts)

	status := http.StatusOK
	extra := gin.H{}
	if err := collection.Load(c.Request.Context()); err != nil {
		status = http.StatusInternalServerError
		extra["error"] = service.UserMessage(err, msgFetchPosts)
	}
	a.renderPostList(c, status, collection, c.Query("q"), extra)
}

// ShowPostNew renders an empty editor.
func (a *API) ShowPostNew(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, "", service.NewPostForm(), "")
}

// ShowPostEdit renders the editor for an existing post.
func (a *API) ShowPostEdit(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), idParam(c))
	if err != nil {
		a.renderHTML(c, statusForError(err), "post_edit.html", gin.H{
			"title":   "Edit Post",
			"error":   service.UserMessage(err, msgFetchPosts),
			"missing": true,
		})
		return
	}
	a.renderPostForm(c, http.StatusOK, post.ID, service.FormFromPost(*post), "")
}

// CreatePost handles the editor form for a new post and renders the
// list with the stored record prepended.
func (a *API) CreatePost(c *gin.Context) {
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, "", form, msgInvalidReq)
		return
	}

	ctx := c.Request.Context()
	collection := service.NewPostCollection(a.posts)
	loadErr := collection.Load(ctx)
	if _, err := collection.Create(ctx, form); err != nil {
		a.renderPostForm(c, statusForError(err), "", form, service.UserMessage(err, msgCreatePost))
		return
	}
	a.renderPostList(c, http.StatusCreated, collection, "", listExtras(noticeCreated, loadErr))
}

// UpdatePost handles the editor form for an existing post.
func (a *API) UpdatePost(c *gin.Context) {
	id := idParam(c)

	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, id, form, msgInvalidReq)
		return
	}

	ctx := c.Request.Context()
	collection := service.NewPostCollection(a.posts)
	loadErr := collection.Load(ctx)
	if _, err := collection.Update(ctx, id, form); err != nil {
		a.renderPostForm(c, statusForError(err), id, form, service.UserMessage(err, msgUpdatePost))
		return
	}
	a.renderPostList(c, http.StatusOK, collection, "", listExtras(noticeUpdated, loadErr))
}

// ShowPostPreview renders the post content as sanitized HTML.
func (a *API) ShowPostPreview(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), idParam(c))
	if err != nil {
		a.renderHTML(c, statusForError(err), "post_preview.html", gin.H{
			"title": "Preview",
			"error": service.UserMessage(err, msgFetchPosts),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "post_preview.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": service.RenderPreview(post.Content),
	})
}

// GetPosts 获取文章列表
func (a *API) GetPosts(c *gin.Context) {
	collection := service.NewPostCollection(a.posts)
	if err := collection.Load(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, service.UserMessage(err, msgFetchPosts))
		return
	}

	posts := collection.Filter(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": len(collection.Posts())})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), idParam(c))
	if err != nil {
		respondError(c, statusForError(err), service.UserMessage(err, msgFetchPosts))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePostJSON 创建新文章
func (a *API) CreatePostJSON(c *gin.Context) {
	var form service.PostForm
	if !bindJSON(c, &form, msgInvalidReq) {
		return
	}

	ctx := c.Request.Context()
	collection := service.NewPostCollection(a.posts)
	if err := collection.Load(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, service.UserMessage(err, msgFetchPosts))
		return
	}
	post, err := collection.Create(ctx, form)
	if err != nil {
		respondError(c, statusForError(err), service.UserMessage(err, msgCreatePost))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post, "total": len(collection.Posts())})
}

// UpdatePostJSON 更新文章
func (a *API) UpdatePostJSON(c *gin.Context) {
	var form service.PostForm
	if !bindJSON(c, &form, msgInvalidReq) {
		return
	}

	ctx := c.Request.Context()
	collection := service.NewPostCollection(a.posts)
	if err := collection.Load(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, service.UserMessage(err, msgFetchPosts))
		return
	}
	post, err := collection.Update(ctx, idParam(c), form)
	if err != nil {
		respondError(c, statusForError(err), service.UserMessage(err, msgUpdatePost))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "total": len(collection.Posts())})
}

// renderPostList 用已加载的集合渲染 posts.html
func (a *API) renderPostList(c *gin.Context, status int, collection *service.PostCollection, query string, extra gin.H) {
	data := gin.H{
		"title": "Posts",
		"query": query,
		"posts": collection.Filter(query),
		"total": len(collection.Posts()),
	}
	for k, v := range extra {
		data[k] = v
	}
	a.renderHTML(c, status, "posts.html", data)
}

func listExtras(notice string, loadErr error) gin.H {
	extra := gin.H{"notice": notice}
	if loadErr != nil {
		extra["error"] = service.UserMessage(loadErr, msgFetchPosts)
	}
	return extra
}

func (a *API) renderPostForm(c *gin.Context, status int, id string, form service.PostForm, message string) {
	title := "New Post"
	action := "/posts"
	if id != "" {
		title = "Edit Post"
		action = "/posts/" + id
	}

	data := gin.H{
		"title":    title,
		"postID":   id,
		"action":   action,
		"form":     form,
		"statuses": service.PostStatuses,
		"slug":     service.Slugify(form.Title),
		"readTime": service.ComputeReadTime(form.Content),
	}
	if message != "" {
		data["error"] = message
	}
	a.renderHTML(c, status, "post_edit.html", data)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
