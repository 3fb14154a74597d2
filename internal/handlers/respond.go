package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"fandomapp/internal/media"
	"fandomapp/internal/middleware"
	"fandomapp/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// responder renders page projections and maps service errors onto HTTP responses. Every
// handler embeds one.
type responder struct {
	log *zap.Logger
}

// render writes a page projection: the page name, the current caller, pending flash
// messages and the page's own data.
func (r responder) render(c *gin.Context, status int, page string, data gin.H) {
	body := gin.H{
		"page":     page,
		"user":     nil,
		"messages": middleware.PopFlashes(c),
	}
	if caller := middleware.CallerFrom(c); caller.Authenticated() {
		body["user"] = caller
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// redirect sends the client on with an optional flash message.
func (r responder) redirect(c *gin.Context, location, level, message string) {
	if message != "" {
		middleware.AddFlash(c, level, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// failure says how to answer a failed operation: which form page to re-render on
// validation errors and where to send a caller who was refused.
type failure struct {
	page   string
	data   gin.H
	denied string
}

func (r responder) fail(c *gin.Context, err error, f failure) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	switch appErr.Code {
	case models.CodeValidation:
		data := gin.H{"errors": appErr.Fields}
		for k, v := range f.data {
			data[k] = v
		}
		r.render(c, http.StatusUnprocessableEntity, f.page, data)
	case models.CodeForbidden:
		r.redirect(c, f.denied, middleware.FlashError, appErr.Message)
	case models.CodeUnauthenticated:
		c.Redirect(http.StatusSeeOther, middleware.LoginURL(c.Request.URL.RequestURI()))
	case models.CodeNotFound:
		r.notFound(c, appErr.Message)
	default:
		r.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		r.render(c, http.StatusInternalServerError, "error", gin.H{"error": "Internal server error"})
	}
}

func (r responder) notFound(c *gin.Context, message string) {
	r.render(c, http.StatusNotFound, "not_found", gin.H{"error": message})
}

// id parses the :id path parameter. Anything that is not a positive integer is a 404, as
// it would not have matched the route.
func (r responder) id(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		r.notFound(c, "Page not found")
		return 0, false
	}
	return uint(id), true
}

// bind decodes the submitted form into dst. Body encodings gin cannot decode become a
// form-level validation error.
func bind(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBind(dst); err != nil {
		return models.NewValidationError(models.FieldErrors{"": "The submitted form could not be read."})
	}
	return nil
}

// upload returns the file posted under field, or nil when none was sent. The caller must
// call the returned close func.
func upload(c *gin.Context, field string) (*media.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, models.NewValidationError(models.FieldErrors{field: "The submitted file could not be read."})
	}
	if header.Size == 0 {
		return nil, noop, models.NewValidationError(models.FieldErrors{field: "The submitted file is empty."})
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, models.NewInternalError(err)
	}
	return newUpload(header, file), func() { _ = file.Close() }, nil
}

func newUpload(header *multipart.FileHeader, file multipart.File) *media.Upload {
	return &media.Upload{
		Filename:    header.Filename,
		Size:        header.Size,
		Body:        file,
		ContentType: header.Header.Get("Content-Type"),
	}
}

// cleared reports whether the "<field>-clear" checkbox was ticked.
func cleared(c *gin.Context, field string) bool {
	v := strings.ToLower(strings.TrimSpace(c.PostForm(field + "-clear")))
	if v == "on" {
		return true
	}
	ok, _ := strconv.ParseBool(v)
	return ok
}

// safeNext accepts only same-site absolute paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
