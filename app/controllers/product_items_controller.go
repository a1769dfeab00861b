package controllers

import (
	"net/http"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/pkg/ctx"
)

type ProductItemController struct {
	items *repositories.ProductItemRepository
}

func NewProductItemController(items *repositories.ProductItemRepository) *ProductItemController {
	return &ProductItemController{items: items}
}

type createProductItemInput struct {
	ProductID  uint        `json:"product_id"  validate:"required"`
	BrandName  string      `json:"brand_name"  validate:"required,max=50"`
	Quantity   *int        `json:"quantity"    validate:"required,gte=0"`
	ExpiryDate models.Date `json:"expiry_date"`
}

func (ctl *ProductItemController) Index(c *ctx.Context) {
	items, err := ctl.items.All(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *ProductItemController) Store(c *ctx.Context) {
	var in createProductItemInput
	if !c.BindJSON(&in) {
		return
	}

	it, err := models.NewProductItem(in.ProductID, in.BrandName, *in.Quantity, in.ExpiryDate)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctl.items.Create(c.Context(), it); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (ctl *ProductItemController) Show(c *ctx.Context) {
	id, ok := pathID(c, "ProductItem")
	if !ok {
		return
	}
	it, err := ctl.items.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (ctl *ProductItemController) Update(c *ctx.Context) {
	id, ok := pathID(c, "ProductItem")
	if !ok {
		return
	}
	it, err := ctl.items.FindByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	var patch models.ProductItemPatch
	if !c.BindJSON(&patch) {
		return
	}
	if err := patch.Apply(it); err != nil {
		fail(c, err)
		return
	}
	if err := ctl.items.Update(c.Context(), it); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (ctl *ProductItemController) Destroy(c *ctx.Context) {
	id, ok := pathID(c, "ProductItem")
	if !ok {
		return
	}
	if err := ctl.items.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
