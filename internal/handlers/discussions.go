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

// DiscussionHandler handles discussions and their comments
type DiscussionHandler struct {
	responder
	discussions *service.DiscussionService
}

// NewDiscussionHandler creates a new DiscussionHandler
func NewDiscussionHandler(discussions *service.DiscussionService, log *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{responder: responder{log: log}, discussions: discussions}
}

func discussionURL(id uint) string {
	return fmt.Sprintf("/discussions/%d", id)
}

func (h *DiscussionHandler) List(c *gin.Context) {
	result, err := h.discussions.List(c.Request.Context(), repository.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "discussion_list", gin.H{"page_obj": result})
}

// Detail counts a view and shows the discussion with its comments and an empty comment
// form.
func (h *DiscussionHandler) Detail(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	detail, err := h.discussions.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "discussion_detail", gin.H{
		"discussion": detail.Discussion,
		"comments":   detail.Comments,
		"form":       validation.CommentForm{},
	})
}

// Comment adds the caller's comment. An invalid comment re-displays the thread with the
// form errors.
func (h *DiscussionHandler) Comment(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form validation.CommentForm
	err := bind(c, &form)
	if err == nil {
		_, err = h.discussions.AddComment(ctx, middleware.CallerFrom(c), id, form)
	}
	if err != nil {
		thread, threadErr := h.discussions.Thread(ctx, id)
		if threadErr != nil {
			h.fail(c, threadErr, failure{})
			return
		}
		h.fail(c, err, failure{page: "discussion_detail", data: gin.H{
			"discussion": thread.Discussion,
			"comments":   thread.Comments,
			"form":       form,
		}})
		return
	}
	h.redirect(c, discussionURL(id), middleware.FlashSuccess, "Comment added!")
}

func (h *DiscussionHandler) CreateForm(c *gin.Context) {
	h.render(c, http.StatusOK, "discussion_form", gin.H{"form": validation.DiscussionForm{}, "title": "Start a discussion"})
}

func (h *DiscussionHandler) Create(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if _, err := h.discussions.EditForm(c.Request.Context(), caller, id); err != nil {
		h.fail(c, err, failure{denied: discussionURL(id)})
		return
	}

	var form validation.DiscussionForm
	formPage := func() failure {
		return failure{page: "discussion_form", data: gin.H{"form": form, "title": "Start a discussion"}}
	}
	if err := bind(c, &form); err != nil {
		h.fail(c, err, formPage())
		return
	}

	discussion, err := h.discussions.Create(c.Request.Context(), middleware.CallerFrom(c), form)
	if err != nil {
		h.fail(c, err, formPage())
		return
	}
	h.redirect(c, discussionURL(discussion.ID), middleware.FlashSuccess, "Discussion created successfully!")
}

func (h *DiscussionHandler) EditForm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	discussion, err := h.discussions.EditForm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: discussionURL(id)})
		return
	}
	h.render(c, http.StatusOK, "discussion_form", gin.H{
		"form":       validation.DiscussionForm{Title: discussion.Title, Content: discussion.Content},
		"title":      "Edit discussion",
		"discussion": discussion,
	})
}

func (h *DiscussionHandler) Edit(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var form validation.DiscussionForm
	formPage := func() failure {
		return failure{
			page:   "discussion_form",
			data:   gin.H{"form": form, "title": "Edit discussion"},
			denied: discussionURL(id),
		}
	}
	if err := bind(c, &form); err != nil {
		h.fail(c, err, formPage())
		return
	}

	if _, err := h.discussions.Edit(c.Request.Context(), caller, id, form); err != nil {
		h.fail(c, err, formPage())
		return
	}
	h.redirect(c, discussionURL(id), middleware.FlashSuccess, "Discussion updated successfully!")
}

func (h *DiscussionHandler) DeleteConfirm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	discussion, err := h.discussions.DeleteConfirm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: discussionURL(id)})
		return
	}
	h.render(c, http.StatusOK, "discussion_confirm_delete", gin.H{"discussion": discussion})
}

// Delete removes the discussion together with its comments
func (h *DiscussionHandler) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.discussions.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		h.fail(c, err, failure{denied: discussionURL(id)})
		return
	}
	h.redirect(c, "/discussions", middleware.FlashSuccess, "Discussion deleted successfully!")
}
