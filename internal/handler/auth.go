package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/doctor-booking/internal/middleware"
	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/service"
	"github.com/iliyamo/doctor-booking/internal/utils"
)

// AuthHandler serves sign-up, sign-in, sign-out and the profile endpoints.
type AuthHandler struct {
	Auth         *service.AuthService
	JWTSecret    string
	AccessTTLMin int
}

func NewAuthHandler(auth *service.AuthService, jwtSecret string, accessTTLMin int) *AuthHandler {
	return &AuthHandler{Auth: auth, JWTSecret: jwtSecret, AccessTTLMin: accessTTLMin}
}

// ----- DTOs -----

type signUpReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	User   model.Session     `json:"user"`
	Access utils.AccessToken `json:"access"`
}

// SignUp handles POST /v1/auth/signup. The new account is signed in and an
// access token for it is returned with 201.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	sess, err := h.Auth.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusCreated, sess)
}

// SignIn handles POST /v1/auth/signin.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	sess, err := h.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, sess)
}

// SignOut handles POST /v1/auth/signout.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.Auth.SignOut(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me and GET /home: it returns the signed-in user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateMe handles PATCH /v1/me. Only the name may change; a body that
// names any other field is rejected before it reaches the Auth Manager.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	raw, ok := body["name"]
	if !ok {
		return badRequest(c, "name required")
	}
	for k := range body {
		if k != "name" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "field cannot be changed", "field": k})
		}
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return badRequest(c, "name must be a string")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required", "field": "name"})
	}

	sess, err := h.Auth.UpdateProfile(c.Request().Context(), service.ProfilePatch{Name: &name})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) respond(c echo.Context, status int, sess model.Session) error {
	at, err := utils.NewAccessToken(h.JWTSecret, sess.ID, sess.Role, h.AccessTTLMin)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, authResp{User: sess, Access: at})
}
