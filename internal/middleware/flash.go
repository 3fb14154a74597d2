package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

const (
	flashCookie  = "flash"
	flashPending = "flash_pending"
	flashSecure  = "flash_secure"
	flashMaxAge  = 60
)

// Flash is a one-time status message shown on the next page.
type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Flashes marks the flash cookie Secure for every request it wraps. Without it the
// cookie is sent over plain HTTP too.
func Flashes(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(flashSecure, secure)
		c.Next()
	}
}

// AddFlash queues a message for the next page the client loads. Messages still waiting
// from an earlier redirect are kept.
func AddFlash(c *gin.Context, level, text string) {
	pending := append(queuedFlashes(c), Flash{Level: level, Text: text})
	c.Set(flashPending, pending)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, encodeFlashes(pending), flashMaxAge, "/", "", c.GetBool(flashSecure), true)
}

// PopFlashes returns the queued messages and clears them.
func PopFlashes(c *gin.Context) []Flash {
	out := queuedFlashes(c)
	if len(out) > 0 || hasFlashCookie(c) {
		c.Set(flashPending, []Flash{})
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookie, "", -1, "/", "", c.GetBool(flashSecure), true)
	}
	if out == nil {
		out = []Flash{}
	}
	return out
}

// queuedFlashes returns this request's queue, starting from the cookie the client sent.
func queuedFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashPending); ok {
		if pending, ok := v.([]Flash); ok {
			return pending
		}
	}
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	return decodeFlashes(raw)
}

func hasFlashCookie(c *gin.Context) bool {
	raw, err := c.Cookie(flashCookie)
	return err == nil && raw != ""
}

func encodeFlashes(flashes []Flash) string {
	data, _ := json.Marshal(flashes)
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeFlashes(raw string) []Flash {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
