// Package controllers holds the REST resource handlers.
package controllers

import (
	"errors"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/pkg/ctx"
)

// fail maps domain errors onto HTTP answers: 422 for validation, 400 for
// unique conflicts, 404 for missing rows, 500 for everything else.
func fail(c *ctx.Context, err error) {
	var (
		ve *models.ValidationError
		ce *repositories.ConflictError
		nf *repositories.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		c.ValidationError(ve.Fields)
	case errors.As(err, &ce):
		c.BadRequest(ce.Message)
	case errors.As(err, &nf):
		c.NotFound(nf.Error())
	case errors.Is(err, repositories.ErrNotFound):
		c.NotFound()
	default:
		c.InternalError(err)
	}
}

// pathID reads the {id} path parameter, answering 404 for anything that is not
// a positive integer.
func pathID(c *ctx.Context, entity string) (uint, bool) {
	n, ok := c.ParamUint("id")
	if !ok {
		c.NotFound(entity + " not found")
	}
	return n, ok
}
