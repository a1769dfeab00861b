package controllers

import "github.com/pantrypal/pantrypal/pkg/ctx"

// Resource is the CRUD surface mounted under one path prefix.
type Resource interface {
	Index(c *ctx.Context)
	Store(c *ctx.Context)
	Show(c *ctx.Context)
	Update(c *ctx.Context)
	Destroy(c *ctx.Context)
}

var (
	_ Resource = (*UserController)(nil)
	_ Resource = (*ProductController)(nil)
	_ Resource = (*ProductItemController)(nil)
)
