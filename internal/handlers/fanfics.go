package handlers

import (
	"fmt"
	"net/http"

	"fandomapp/internal/middleware"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/service"
	"fandomapp/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FanficHandler handles fanfic-related requests
type FanficHandler struct {
	responder
	fanfics *service.FanficService
}

// NewFanficHandler creates a new FanficHandler
func NewFanficHandler(fanfics *service.FanficService, log *zap.Logger) *FanficHandler {
	return &FanficHandler{responder: responder{log: log}, fanfics: fanfics}
}

func fanficURL(id uint) string {
	return fmt.Sprintf("/fanfics/%d", id)
}

// choices are the rating and genre options every fanfic form and filter offers.
func choices(data gin.H) gin.H {
	data["ratings"] = models.RatingChoices
	data["genres"] = models.GenreChoices
	return data
}

// List returns one page of fanfics narrowed by the genre, rating and search query
// parameters.
func (h *FanficHandler) List(c *gin.Context) {
	var filter repository.FanficFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = repository.FanficFilter{}
	}
	result, err := h.fanfics.List(c.Request.Context(), filter, repository.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "fanfic_list", choices(gin.H{
		"page_obj": result,
		"filter":   filter,
	}))
}

// Detail counts a view and returns the fanfic with the caller's like state
func (h *FanficHandler) Detail(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	detail, err := h.fanfics.Detail(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "fanfic_detail", gin.H{
		"fanfic":       detail.Fanfic,
		"rating_label": detail.Fanfic.Rating.Label(),
		"genre_label":  detail.Fanfic.Genre.Label(),
		"is_liked":     detail.IsLiked,
		"total_likes":  detail.TotalLikes,
	})
}

func (h *FanficHandler) CreateForm(c *gin.Context) {
	h.render(c, http.StatusOK, "fanfic_form", choices(gin.H{
		"form":  validation.FanficForm{Rating: string(models.DefaultRating)},
		"title": "Write a fanfic",
	}))
}

func (h *FanficHandler) Create(c *gin.Context) {
	in, done, err := h.input(c)
	defer done()
	formPage := failure{page: "fanfic_form", data: choices(gin.H{"form": in.Form, "title": "Write a fanfic"})}
	if err != nil {
		h.fail(c, err, formPage)
		return
	}

	fanfic, err := h.fanfics.Create(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		h.fail(c, err, formPage)
		return
	}
	h.redirect(c, fanficURL(fanfic.ID), middleware.FlashSuccess, "Fanfic created successfully!")
}

func (h *FanficHandler) EditForm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	fanfic, err := h.fanfics.EditForm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: fanficURL(id)})
		return
	}
	h.render(c, http.StatusOK, "fanfic_form", choices(gin.H{
		"form": validation.FanficForm{
			Title:       fanfic.Title,
			Description: fanfic.Description,
			Content:     fanfic.Content,
			Rating:      string(fanfic.Rating),
			Genre:       string(fanfic.Genre),
		},
		"title":  "Edit fanfic",
		"fanfic": fanfic,
	}))
}

// Edit updates a fanfic (only by the author)
func (h *FanficHandler) Edit(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	if _, err := h.fanfics.EditForm(c.Request.Context(), caller, id); err != nil {
		h.fail(c, err, failure{denied: fanficURL(id)})
		return
	}

	in, done, err := h.input(c)
	defer done()
	formPage := failure{
		page:   "fanfic_form",
		data:   choices(gin.H{"form": in.Form, "title": "Edit fanfic"}),
		denied: fanficURL(id),
	}
	if err != nil {
		h.fail(c, err, formPage)
		return
	}

	if _, err := h.fanfics.Edit(c.Request.Context(), caller, id, in); err != nil {
		h.fail(c, err, formPage)
		return
	}
	h.redirect(c, fanficURL(id), middleware.FlashSuccess, "Fanfic updated successfully!")
}

func (h *FanficHandler) DeleteConfirm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	fanfic, err := h.fanfics.DeleteConfirm(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: fanficURL(id)})
		return
	}
	h.render(c, http.StatusOK, "fanfic_confirm_delete", gin.H{"fanfic": fanfic})
}

// Delete deletes a fanfic (only by the author)
func (h *FanficHandler) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.fanfics.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		h.fail(c, err, failure{denied: fanficURL(id)})
		return
	}
	h.redirect(c, "/fanfics", middleware.FlashSuccess, "Fanfic deleted successfully!")
}

// Like toggles the caller's like on a fanfic
func (h *FanficHandler) Like(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	liked, err := h.fanfics.ToggleLike(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		h.fail(c, err, failure{denied: fanficURL(id)})
		return
	}
	if liked {
		h.redirect(c, fanficURL(id), middleware.FlashSuccess, "You liked this fanfic!")
		return
	}
	h.redirect(c, fanficURL(id), middleware.FlashInfo, "Like removed")
}

func (h *FanficHandler) input(c *gin.Context) (service.FanficInput, func(), error) {
	var in service.FanficInput
	if err := bind(c, &in.Form); err != nil {
		return in, func() {}, err
	}
	cover, done, err := upload(c, "cover")
	if err != nil {
		return in, done, err
	}
	in.Cover = cover
	in.ClearCover = cleared(c, "cover")
	return in, done, nil
}
