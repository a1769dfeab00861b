package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// UniqueProductPerUser names the (name, user_id) unique index. It is
// created by its own migration rather than by a struct tag.
const UniqueProductPerUser = "unique_product_per_user"

// Product is a pantry entry owned by one user; its items carry the
// per-brand quantities and expiry dates.
type Product struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"size:50;not null" json:"name" validate:"required,max=50"`
	UserID       uint          `gorm:"not null;index" json:"user_id" validate:"required"`
	Category     string        `gorm:"not null" json:"category" validate:"required,max=255"`
	Location     string        `gorm:"not null" json:"location" validate:"required,max=255"`
	Quantity     int           `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	Unit         string        `gorm:"not null" json:"unit" validate:"required,max=50"`
	LowStock     int           `gorm:"not null;default:0" json:"low_stock" validate:"gte=0"`
	ProductItems []ProductItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product_items"`
}

// NewProduct validates a product before it is persisted.
func NewProduct(userID uint, name, category, location, unit string, quantity, lowStock int) (*Product, error) {
	p := &Product{
		UserID:   userID,
		Name:     name,
		Category: category,
		Location: location,
		Unit:     unit,
		Quantity: quantity,
		LowStock: lowStock,

		ProductItems: []ProductItem{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	return check(p)
}

func (p *Product) BeforeSave(*gorm.DB) error {
	return p.Validate()
}

// IsLowStock reports whether the quantity has fallen to the threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStock
}

// MarshalJSON adds the derived is_low_stock flag.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		IsLowStock bool `json:"is_low_stock"`
	}{plain(p), p.IsLowStock()})
}

// RecomputeQuantity sets Quantity to the sum of the loaded items.
func (p *Product) RecomputeQuantity() int {
	total := 0
	for _, it := range p.ProductItems {
		total += it.Quantity
	}
	p.Quantity = total
	return total
}

// ProductPatch lists the product fields a client may change.
type ProductPatch struct {
	Name     *string `json:"name"`
	UserID   *uint   `json:"user_id"`
	Category *string `json:"category"`
	Location *string `json:"location"`
	Quantity *int    `json:"quantity"`
	Unit     *string `json:"unit"`
	LowStock *int    `json:"low_stock"`
}

func (pp ProductPatch) Apply(p *Product) error {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.UserID != nil {
		p.UserID = *pp.UserID
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.Quantity != nil {
		p.Quantity = *pp.Quantity
	}
	if pp.Unit != nil {
		p.Unit = *pp.Unit
	}
	if pp.LowStock != nil {
		p.LowStock = *pp.LowStock
	}
	return p.Validate()
}
