package handlers

import (
	"net/http"

	"fandomapp/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HomeHandler serves the landing page
type HomeHandler struct {
	responder
	home *service.HomeService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(home *service.HomeService, log *zap.Logger) *HomeHandler {
	return &HomeHandler{responder: responder{log: log}, home: home}
}

// Home returns the newest posts, discussions and fanfics
func (h *HomeHandler) Home(c *gin.Context) {
	page, err := h.home.Home(c.Request.Context())
	if err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.render(c, http.StatusOK, "home", gin.H{
		"posts":       page.Posts,
		"discussions": page.Discussions,
		"fanfics":     page.Fanfics,
	})
}
