package notification

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookie = "bm_flash"
	flashMaxAge = 60
)

// SetFlash stores toasts in a short lived cookie so they survive the
// redirect that follows a successful form post.
func SetFlash(c *gin.Context, toasts []Toast) {
	if len(toasts) == 0 {
		return
	}

	payload, err := json.Marshal(toasts)
	if err != nil {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, base64.RawURLEncoding.EncodeToString(payload), flashMaxAge, "/", "", false, true)
}

// PopFlash returns the toasts stored by SetFlash and clears the cookie.
// A missing or corrupt cookie yields no toasts.
func PopFlash(c *gin.Context) []Toast {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, "", -1, "/", "", false, true)

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var toasts []Toast
	if err := json.Unmarshal(payload, &toasts); err != nil {
		return nil
	}
	return toasts
}
