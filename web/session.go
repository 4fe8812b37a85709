package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	cartCookieName = "cafe_session"
	authCookieName = "cafe_auth"
)

// cartSessionID returns the caller's cart session id, minting a cookie on
// first touch. The id only keys the in-memory cart; it carries no identity.
func (s *Server) cartSessionID(c echo.Context) string {
	if ck, err := c.Cookie(cartCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.Session.CartTTL),
	})
	return id
}

func authToken(c echo.Context) string {
	if ck, err := c.Cookie(authCookieName); err == nil {
		return ck.Value
	}
	return ""
}

func setAuthCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func clearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
