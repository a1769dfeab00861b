package controllers

import (
	"net/http"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/pkg/ctx"
)

type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController(products *repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

type createProductInput struct {
	Name     string `json:"name"      validate:"required,max=50"`
	UserID   uint   `json:"user_id"   validate:"required"`
	Category string `json:"category"  validate:"required,max=255"`
	Location string `json:"location"  validate:"required,max=255"`
	Quantity int    `json:"quantity"  validate:"gte=0"`
	Unit     string `json:"unit"      validate:"required,max=50"`
	LowStock int    `json:"low_stock" validate:"gte=0"`
}

func (ctl *ProductController) Index(c *ctx.Context) {
	products, err := ctl.products.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctl *ProductController) Store(c *ctx.Context) {
	var in createProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := models.NewProduct(in.UserID, in.Name, in.Category, in.Location, in.Unit, in.Quantity, in.LowStock)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctl.products.Create(c.Context(), p); err != nil {
		fail(c, err)
		return
	}

	c.Log().Info("product created", "product_id", p.ID, "user_id", p.UserID)
	c.JSON(http.StatusCreated, p)
}

func (ctl *ProductController) Show(c *ctx.Context) {
	id, ok := pathID(c, "Product")
	if !ok {
		return
	}
	p, err := ctl.products.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *ProductController) Update(c *ctx.Context) {
	id, ok := pathID(c, "Product")
	if !ok {
		return
	}
	p, err := ctl.products.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	var patch models.ProductPatch
	if !c.BindJSON(&patch) {
		return
	}
	if err := patch.Apply(p); err != nil {
		fail(c, err)
		return
	}
	if err := ctl.products.Update(c.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *ProductController) Destroy(c *ctx.Context) {
	id, ok := pathID(c, "Product")
	if !ok {
		return
	}
	if err := ctl.products.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
