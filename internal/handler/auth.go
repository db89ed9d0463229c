package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/middleware"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
)

// Cookie describes the session cookie set on register and login.
type Cookie struct {
	Name   string
	Secure bool
}

// AuthHandler serves the /auth endpoints and the profile update.
type AuthHandler struct {
	auth   *service.AuthService
	cookie Cookie
}

func NewAuthHandler(auth *service.AuthService, cookie Cookie) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{auth: auth, cookie: cookie}
}

// ----- DTOs -----

type userResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Dietary string `json:"dietary,omitempty"`
	Token   string `json:"token,omitempty"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Dietary: u.Dietary}
}

// Register: create the account and open a session immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	sess, err := h.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	return h.respondSession(c, http.StatusCreated, sess)
}

// Login: verify credentials and open a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	sess, err := h.auth.Login(ctx, req)
	if err != nil {
		return err
	}
	return h.respondSession(c, http.StatusOK, sess)
}

// Logout clears the session cookie. Tokens are stateless, so a bearer
// client logs out by discarding its copy.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me returns the user resolved by the session middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.Unauthorized("not authorized")
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// UpdateProfile changes name, email, dietary preference or password of
// the current user.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	var req service.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	u, err := h.auth.UpdateProfile(ctx, uid, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResp(*u))
}

func (h *AuthHandler) respondSession(c echo.Context, status int, sess *service.Session) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	resp := toUserResp(sess.User)
	resp.Token = sess.Token
	return c.JSON(status, resp)
}
