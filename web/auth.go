package web

import (
	"errors"
	"log/slog"
	"net/http"

	"cafe-jampot/services"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	_, err := services.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg, "field": ve.Field})
		}
		slog.Error("auth: signup", "err", err)
		// Generic on purpose: no account enumeration.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unable to create account"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"pending": true,
		"message": "Account created. Ask an admin to grant you staff access.",
	})
}

func (s *Server) handleSignIn(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sess, err := services.SignIn(c.Request().Context(), req.Email, req.Password, s.cfg.Session.AuthTTL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		slog.Error("auth: signin", "err", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign in failed, please retry"})
	}
	setAuthCookie(c, sess.Token, sess.ExpiresAt)
	return s.sessionPayload(c, sess.UserID, sess.Email)
}

func (s *Server) handleSignOut(c echo.Context) error {
	if token := authToken(c); token != "" {
		if err := services.SignOut(c.Request().Context(), token); err != nil {
			slog.Error("auth: signout", "err", err)
		}
	}
	clearAuthCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (s *Server) handleSession(c echo.Context) error {
	sess, err := services.GetSession(c.Request().Context(), authToken(c))
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			return c.JSON(http.StatusOK, echo.Map{"session": nil})
		}
		slog.Error("auth: get session", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to check session"})
	}
	return s.sessionPayload(c, sess.UserID, sess.Email)
}

// sessionPayload reports who the caller is and whether access is still
// pending approval (signed in but role-less).
func (s *Server) sessionPayload(c echo.Context, userID, email string) error {
	ctx := c.Request().Context()
	isAdmin, err := services.HasRole(ctx, userID, services.RoleAdmin)
	if err != nil {
		slog.Error("auth: role check", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to check roles"})
	}
	isStaff, err := services.HasRole(ctx, userID, services.RoleStaff)
	if err != nil {
		slog.Error("auth: role check", "err", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to check roles"})
	}

	role := ""
	switch {
	case isAdmin:
		role = services.RoleAdmin
	case isStaff:
		role = services.RoleStaff
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session": echo.Map{
			"userId":  userID,
			"email":   email,
			"role":    role,
			"pending": role == "",
		},
	})
}

// requireStaff admits sessions holding the staff or admin role.
func (s *Server) requireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := services.GetSession(c.Request().Context(), authToken(c))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign in required"})
		}
		ok, err := services.IsStaff(c.Request().Context(), sess.UserID)
		if err != nil {
			slog.Error("auth: staff check", "err", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to check access"})
		}
		if !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access pending approval"})
		}
		c.Set("userID", sess.UserID)
		return next(c)
	}
}

// requireAdmin further restricts a staff route to admins.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, _ := c.Get("userID").(string)
		ok, err := services.HasRole(c.Request().Context(), userID, services.RoleAdmin)
		if err != nil {
			slog.Error("auth: admin check", "err", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to check access"})
		}
		if !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}
		return next(c)
	}
}
