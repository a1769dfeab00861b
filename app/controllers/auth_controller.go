package controllers

import (
	"errors"
	"net/http"

	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/app/services"
	"github.com/pantrypal/pantrypal/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /login
//
// 400 when email or password is missing, 404 for an unknown email, 401 for
// a wrong password. A failed attempt leaves the current session untouched.
func (ctl *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}
	if in.Email == "" {
		c.BadRequest("Email is required")
		return
	}
	if in.Password == "" {
		c.BadRequest("Password is required")
		return
	}

	user, err := ctl.service.Login(c.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, services.ErrEmailNotFound):
		c.NotFound("Email not found")
		return
	case errors.Is(err, services.ErrInvalidPassword):
		c.Log().Warn("login rejected", "ip", c.ClientIP())
		c.Unauthorized("Invalid password")
		return
	case err != nil:
		fail(c, err)
		return
	}

	sess := c.Session()
	sess.Login(user.ID)
	if err := sess.Save(c.W); err != nil {
		c.InternalError(err)
		return
	}

	c.Log().Info("login", "user_id", user.ID, "ip", c.ClientIP())
	c.JSON(http.StatusOK, user)
}

// Logout DELETE /logout
func (ctl *AuthController) Logout(c *ctx.Context) {
	sess := c.Session()
	sess.Logout()
	if err := sess.Save(c.W); err != nil {
		c.InternalError(err)
		return
	}
	c.NoContent()
}

// CheckSession GET /check_session
func (ctl *AuthController) CheckSession(c *ctx.Context) {
	userID, ok := c.Session().UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	user, err := ctl.service.CurrentUser(c.Context(), userID)
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound("User not found")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
