package controllers

import (
	"net/http"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/pkg/ctx"
)

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

type createUserInput struct {
	Username string  `json:"username" validate:"required,max=50"`
	Email    string  `json:"email"    validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required"`
	Picture  *string `json:"picture"`
}

// Index GET /users
func (ctl *UserController) Index(c *ctx.Context) {
	users, err := ctl.users.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Store POST /users
func (ctl *UserController) Store(c *ctx.Context) {
	var in createUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := models.NewUser(in.Username, in.Email, in.Password, in.Picture)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctl.users.Create(c.Context(), user); err != nil {
		fail(c, err)
		return
	}

	c.Log().Info("user created", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// Show GET /users/{id}
func (ctl *UserController) Show(c *ctx.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	user, err := ctl.users.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update PATCH /users/{id}
func (ctl *UserController) Update(c *ctx.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	user, err := ctl.users.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	var patch models.UserPatch
	if !c.BindJSON(&patch) {
		return
	}
	if err := patch.Apply(user); err != nil {
		fail(c, err)
		return
	}
	if err := ctl.users.Update(c.Context(), user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Destroy DELETE /users/{id}
func (ctl *UserController) Destroy(c *ctx.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	if err := ctl.users.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Log().Info("user deleted", "user_id", id)
	c.NoContent()
}
