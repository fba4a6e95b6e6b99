package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName carries a one-shot message across a redirect.
const FlashCookieName = "pf_flash"

// Flash levels, used as CSS modifiers by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a message shown once on the next page render.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SetFlash stores f in a short-lived cookie. Anonymous visitors get
// flashes too, so this does not touch Valkey.
func SetFlash(w http.ResponseWriter, f Flash, secure bool) {
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// PopFlash reads and clears the flash cookie. Returns nil if there is
// none or it is malformed.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(payload, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
