package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sqlpractice-service/internal/application/command"
)

func (h *Handler) SignUp(c echo.Context) error {
	var signUpCommand command.SignUpCommand
	if err := bindBody(c, &signUpCommand); err != nil {
		return err
	}

	result, err := h.users.SignUp(c.Request().Context(), &signUpCommand)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, result, http.StatusOK)
}

func (h *Handler) Login(c echo.Context) error {
	var loginCommand command.LoginCommand
	if err := bindBody(c, &loginCommand); err != nil {
		return err
	}

	result, err := h.users.Login(c.Request().Context(), &loginCommand)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(result.Token, int(time.Until(result.ExpiresAt).Seconds())))
	return sendJSONResponse(c, result, http.StatusOK)
}

func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.users.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, Response{Status: "success", Message: "Logged out", Code: http.StatusOK})
}

func (h *Handler) Me(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendJSONResponse(c, map[string]interface{}{"user": nil}, http.StatusOK)
	}

	result, err := h.users.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return sendJSONResponse(c, result, http.StatusOK)
}

// sessionCookie builds the session cookie; maxAge < 0 deletes it.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
