package handlers

import (
	"fmt"
	"net/http"

	"fandomapp/internal/middleware"
	"fandomapp/internal/repository"
	"fandomapp/internal/service"
	"fandomapp/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler handles post-related requests
type PostHandler struct {
	responder
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{responder: responder{log: log}, posts: posts}
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d", id)
}

// List returns one page of posts, newest first
func (h *PostHandler) List(c *gin.Context) {
	result, err := h.posts.List(c.Request.Context(), repository.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "post_list", gin.H{"page_obj": result})
}

// Detail returns a single post with the caller's like state
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	detail, err := h.posts.Detail(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "post_detail", gin.H{
		"post":        detail.Post,
		"is_liked":    detail.IsLiked,
		"total_likes": detail.TotalLikes,
	})
}

// CreateForm renders an empty post form
func (h *PostHandler) CreateForm(c *gin.Context) {
	h.render(c, http.StatusOK, "post_form", gin.H{"form": validation.PostForm{}, "title": "Create post"})
}

// Create publishes a new post
func (h *PostHandler) Create(c *gin.Context) {
	in, done, err := h.input(c)
	defer done()
	formPage := failure{page: "post_form", data: gin.H{"form": in.Form, "title": "Create post"}}
	if err != nil {
		h.fail(c, err, formPage)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		h.fail(c, err, formPage)
		return
	}
	h.redirect(c, postURL(post.ID), middleware.FlashSuccess, "Post created successfully!")
}

// EditForm renders the post form filled with the current values
func (h *PostHandler) EditForm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	post, err := h.posts.EditForm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: postURL(id)})
		return
	}
	h.render(c, http.StatusOK, "post_form", gin.H{
		"form":  validation.PostForm{Title: post.Title, Content: post.Content},
		"title": "Edit post",
		"post":  post,
	})
}

// Edit updates a post (only by the author)
func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	if _, err := h.posts.EditForm(c.Request.Context(), caller, id); err != nil {
		h.fail(c, err, failure{denied: postURL(id)})
		return
	}

	in, done, err := h.input(c)
	defer done()
	formPage := failure{page: "post_form", data: gin.H{"form": in.Form, "title": "Edit post"}, denied: postURL(id)}
	if err != nil {
		h.fail(c, err, formPage)
		return
	}

	post, err := h.posts.Edit(c.Request.Context(), caller, id, in)
	if err != nil {
		h.fail(c, err, formPage)
		return
	}
	h.redirect(c, postURL(post.ID), middleware.FlashSuccess, "Post updated successfully!")
}

// DeleteConfirm asks the author to confirm the deletion
func (h *PostHandler) DeleteConfirm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	post, err := h.posts.DeleteConfirm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: postURL(id)})
		return
	}
	h.render(c, http.StatusOK, "post_confirm_delete", gin.H{"post": post})
}

// Delete deletes a post (only by the author)
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		h.fail(c, err, failure{denied: postURL(id)})
		return
	}
	h.redirect(c, "/posts", middleware.FlashSuccess, "Post deleted successfully!")
}

// Like toggles the caller's like on a post
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	liked, err := h.posts.ToggleLike(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: postURL(id)})
		return
	}
	if liked {
		h.redirect(c, postURL(id), middleware.FlashSuccess, "You liked this post!")
		return
	}
	h.redirect(c, postURL(id), middleware.FlashInfo, "Like removed")
}

func (h *PostHandler) input(c *gin.Context) (service.PostInput, func(), error) {
	var in service.PostInput
	if err := bind(c, &in.Form); err != nil {
		return in, func() {}, err
	}
	image, done, err := upload(c, "image")
	if err != nil {
		return in, done, err
	}
	in.Image = image
	in.ClearImage = cleared(c, "image")
	return in, done, nil
}
