package models

import "gorm.io/gorm"

// ProductItem is one branded, dated batch of a product.
type ProductItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProductID  uint   `gorm:"not null;index" json:"product_id" validate:"required"`
	BrandName  string `gorm:"size:50;not null" json:"brand_name" validate:"required,max=50"`
	Quantity   int    `gorm:"not null" json:"quantity" validate:"gte=0"`
	ExpiryDate Date   `json:"expiry_date"`
}

func NewProductItem(productID uint, brandName string, quantity int, expiry Date) (*ProductItem, error) {
	it := &ProductItem{
		ProductID:  productID,
		BrandName:  brandName,
		Quantity:   quantity,
		ExpiryDate: expiry,
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *ProductItem) Validate() error {
	return check(it)
}

func (it *ProductItem) BeforeSave(*gorm.DB) error {
	return it.Validate()
}

// ProductItemPatch lists the item fields a client may change. A null
// expiry_date clears the date.
type ProductItemPatch struct {
	ProductID  *uint          `json:"product_id"`
	BrandName  *string        `json:"brand_name"`
	Quantity   *int           `json:"quantity"`
	ExpiryDate Optional[Date] `json:"expiry_date"`
}

func (p ProductItemPatch) Apply(it *ProductItem) error {
	if p.ProductID != nil {
		it.ProductID = *p.ProductID
	}
	if p.BrandName != nil {
		it.BrandName = *p.BrandName
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.ExpiryDate.Set {
		if p.ExpiryDate.Value == nil {
			it.ExpiryDate = Date{}
		} else {
			it.ExpiryDate = *p.ExpiryDate.Value
		}
	}
	return it.Validate()
}
