package handlers

import (
	"fmt"
	"net/http"

	"fandomapp/internal/middleware"
	"fandomapp/internal/service"
	"fandomapp/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	responder
	accounts *service.AccountService
	auth     *middleware.Authenticator
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *service.AccountService, auth *middleware.Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{log: log}, accounts: accounts, auth: auth}
}

// RegisterForm renders the empty sign-up form
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register", gin.H{"form": validation.RegisterForm{}})
}

// Register creates the account, signs the new user in and sends them home
func (h *AuthHandler) Register(c *gin.Context) {
	var form validation.RegisterForm
	if err := bind(c, &form); err != nil {
		h.fail(c, err, failure{page: "register", data: gin.H{"form": validation.RegisterForm{}}})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), form)
	if err != nil {
		redisplay := form
		redisplay.Password1, redisplay.Password2 = "", ""
		h.fail(c, err, failure{page: "register", data: gin.H{"form": redisplay}})
		return
	}

	if err := h.auth.StartSession(c, user.ID, user.Username); err != nil {
		h.fail(c, err, failure{})
		return
	}
	h.redirect(c, "/", middleware.FlashSuccess, fmt.Sprintf("Welcome, %s!", user.Username))
}

// LoginForm renders the sign-in form, remembering where to go afterwards
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{
		"form": validation.LoginForm{},
		"next": safeNext(c.DefaultQuery("next", "/")),
	})
}

// Login checks the credentials and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.DefaultQuery("next", c.DefaultPostForm("next", "/")))

	var form validation.LoginForm
	if err := bind(c, &form); err != nil {
		h.fail(c, err, failure{page: "login", data: gin.H{"form": validation.LoginForm{}, "next": next}})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form)
	if err != nil {
		h.fail(c, err, failure{page: "login", data: gin.H{
			"form": validation.LoginForm{Username: form.Username},
			"next": next,
		}})
		return
	}

	if err := h.auth.StartSession(c, user.ID, user.Username); err != nil {
		h.fail(c, err, failure{})
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

// Logout ends the session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.EndSession(c); err != nil {
		h.log.Warn("failed to revoke session", zap.Error(err))
	}
	h.redirect(c, "/", middleware.FlashInfo, "You have been logged out.")
}

// DeleteAccount removes the caller's account and everything they wrote
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), middleware.CallerFrom(c)); err != nil {
		h.fail(c, err, failure{})
		return
	}
	if err := h.auth.EndSession(c); err != nil {
		h.log.Warn("failed to revoke session", zap.Error(err))
	}
	h.redirect(c, "/", middleware.FlashInfo, "Your account has been deleted.")
}
