package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashSurvivesOneRedirect(t *testing.T) {
	r := gin.New()
	r.POST("/act", func(c *gin.Context) {
		AddFlash(c, FlashSuccess, "Saved!")
		AddFlash(c, FlashInfo, "And another")
		c.Redirect(http.StatusSeeOther, "/show")
	})
	r.GET("/show", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"messages": PopFlashes(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/act", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	flash := cookies[len(cookies)-1]
	assert.Equal(t, flashCookie, flash.Name)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(flash)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"messages":[{"level":"success","text":"Saved!"},{"level":"info","text":"And another"}]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/show", nil))
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestFlashCookieSecureFlag(t *testing.T) {
	for _, secure := range []bool{false, true} {
		r := gin.New()
		r.Use(Flashes(secure))
		r.POST("/act", func(c *gin.Context) {
			AddFlash(c, FlashSuccess, "Saved!")
			c.Redirect(http.StatusSeeOther, "/show")
		})
		r.GET("/show", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"messages": PopFlashes(c)})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/act", nil))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, secure, cookies[0].Secure)

		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		req.AddCookie(&http.Cookie{Name: flashCookie, Value: cookies[0].Value})
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		cleared := w.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, secure, cleared[0].Secure)
		assert.True(t, cleared[0].MaxAge < 0)
	}
}

func TestDecodeFlashesIgnoresGarbage(t *testing.T) {
	assert.Nil(t, decodeFlashes("%%%"))
	assert.Nil(t, decodeFlashes("bm90IGpzb24"))
	assert.Equal(t, []Flash{{Level: FlashError, Text: "x"}}, decodeFlashes(encodeFlashes([]Flash{{Level: FlashError, Text: "x"}})))
}
