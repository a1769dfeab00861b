package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrypal/pantrypal/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ProductItems", func(db *gorm.DB) *gorm.DB { return db.Order("product_items.id") })
}

// All returns every product with its items, ordered by id.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.withItems(ctx).Order("id").Find(&products).Error
	return products, wrap("list", "Product", err)
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.withItems(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("find", "Product", err)
	}
	return &p, nil
}

// FindConflict returns a *ConflictError when userID already owns a product
// called name, ignoring excludeID.
func (r *ProductRepository) FindConflict(ctx context.Context, name string, userID, excludeID uint) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("name = ? AND user_id = ? AND id <> ?", name, userID, excludeID).
		Count(&n).Error
	if err != nil {
		return wrap("check", "Product", err)
	}
	if n > 0 {
		return &ConflictError{Field: "name", Message: "Product already exists for this user"}
	}
	return nil
}

// Create persists a product once its owner is known to exist and the
// (name, user_id) pair is free.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.checkWrite(ctx, p, 0); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	err = lostRace(err, func() error { return r.FindConflict(ctx, p.Name, p.UserID, 0) })
	return wrap("create", "Product", err)
}

// Update persists changed columns of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	if err := r.checkWrite(ctx, p, p.ID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
	err = lostRace(err, func() error { return r.FindConflict(ctx, p.Name, p.UserID, p.ID) })
	return wrap("update", "Product", err)
}

func (r *ProductRepository) checkWrite(ctx context.Context, p *models.Product, excludeID uint) error {
	if err := exists(ctx, r.db, &models.User{}, p.UserID, "User"); err != nil {
		return err
	}
	return r.FindConflict(ctx, p.Name, p.UserID, excludeID)
}

// Delete removes the product and its items in one transaction.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(ctx, tx, &models.Product{}, id, "Product"); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductItem{}).Error; err != nil {
			return wrap("delete", "ProductItem", err)
		}
		return wrap("delete", "Product", tx.Delete(&models.Product{}, id).Error)
	})
}

// exists returns a *NotFoundError unless model has a row with id.
func exists(ctx context.Context, db *gorm.DB, model interface{}, id uint, entity string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(entity)
		}
		return wrap("check", entity, err)
	}
	if n == 0 {
		return notFound(entity)
	}
	return nil
}
