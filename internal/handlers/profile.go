package handlers

import (
	"net/http"
	"net/url"

	"fandomapp/internal/middleware"
	"fandomapp/internal/service"
	"fandomapp/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler handles member profiles
type ProfileHandler struct {
	responder
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{responder: responder{log: log}, profiles: profiles}
}

// View shows a member's profile and everything they have written
func (h *ProfileHandler) View(c *gin.Context) {
	page, err := h.profiles.View(c.Request.Context(), middleware.CallerFrom(c), c.Param("username"))
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "profile", gin.H{
		"profile_user": page.Owner,
		"profile":      page.Profile,
		"is_owner":     page.IsOwner,
		"posts":        page.Posts,
		"discussions":  page.Discussions,
		"fanfics":      page.Fanfics,
	})
}

// EditForm renders the caller's profile form
func (h *ProfileHandler) EditForm(c *gin.Context) {
	profile, err := h.profiles.EditForm(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "profile_edit", gin.H{
		"form": validation.ProfileForm{
			Bio:               profile.Bio,
			FavoriteCharacter: profile.FavoriteCharacter,
		},
		"profile": profile,
	})
}

// Edit saves the caller's profile
func (h *ProfileHandler) Edit(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	var form validation.ProfileForm
	if err := bind(c, &form); err != nil {
		h.fail(c, err, failure{page: "profile_edit", data: gin.H{"form": form}})
		return
	}
	avatar, closeAvatar, err := upload(c, "avatar")
	if err != nil {
		h.fail(c, err, failure{page: "profile_edit", data: gin.H{"form": form}})
		return
	}
	defer closeAvatar()

	_, err = h.profiles.Edit(c.Request.Context(), caller, service.ProfileInput{
		Form:        form,
		Avatar:      avatar,
		ClearAvatar: cleared(c, "avatar"),
	})
	if err != nil {
		h.fail(c, err, failure{page: "profile_edit", data: gin.H{"form": form}})
		return
	}
	h.redirect(c, "/profile/"+url.PathEscape(caller.Username), middleware.FlashSuccess, "Profile updated successfully!")
}
