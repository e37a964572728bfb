package security

import (
	"net/http"
	"time"
)

// HardenedCookie returns an HttpOnly, Secure, SameSite=Strict cookie.
// A non-positive duration produces a cookie that deletes itself.
func HardenedCookie(name, val, path string, duration time.Duration) *http.Cookie {
	maxAge := int(duration.Seconds())
	if duration <= 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     name,
		Value:    val,
		Path:     path,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
