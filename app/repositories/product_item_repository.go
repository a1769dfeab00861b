package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/models"
)

// ProductItemRepository handles database operations for ProductItem.
type ProductItemRepository struct {
	db *gorm.DB
}

func NewProductItemRepository(db *gorm.DB) *ProductItemRepository {
	return &ProductItemRepository{db: db}
}

func (r *ProductItemRepository) All(ctx context.Context) ([]models.ProductItem, error) {
	items := []models.ProductItem{}
	err := r.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, wrap("list", "ProductItem", err)
}

func (r *ProductItemRepository) FindByID(ctx context.Context, id uint) (*models.ProductItem, error) {
	var it models.ProductItem
	if err := r.db.WithContext(ctx).First(&it, id).Error; err != nil {
		return nil, wrap("find", "ProductItem", err)
	}
	return &it, nil
}

// Create persists an item once its product is known to exist.
func (r *ProductItemRepository) Create(ctx context.Context, it *models.ProductItem) error {
	if err := exists(ctx, r.db, &models.Product{}, it.ProductID, "Product"); err != nil {
		return err
	}
	return wrap("create", "ProductItem", r.db.WithContext(ctx).Create(it).Error)
}

func (r *ProductItemRepository) Update(ctx context.Context, it *models.ProductItem) error {
	if err := exists(ctx, r.db, &models.Product{}, it.ProductID, "Product"); err != nil {
		return err
	}
	return wrap("update", "ProductItem", r.db.WithContext(ctx).Save(it).Error)
}

func (r *ProductItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ProductItem{}, id)
	if res.Error != nil {
		return wrap("delete", "ProductItem", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("ProductItem")
	}
	return nil
}
