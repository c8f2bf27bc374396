package handlers

import (
	"errors"
	"net/http"
	"time"

	"slginvoice/internal/common"
	"slginvoice/internal/middleware"
	"slginvoice/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles the operator login endpoints
type AuthHandlers struct {
	authService services.AuthService
	sessionTTL  time.Duration
	secureCooky bool
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, sessionTTL time.Duration, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		sessionTTL:  sessionTTL,
		secureCooky: secureCookies,
	}
}

// Login handles POST /login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return common.SendValidationError(c, "credentials", "username and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Logged in",
		"operator": req.Username,
	})
}

// Logout handles POST /logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return common.SendServerError(c, "Logout failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCooky,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}
