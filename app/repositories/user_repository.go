package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrypal/pantrypal/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") }).
		Preload("Products.ProductItems", func(db *gorm.DB) *gorm.DB { return db.Order("product_items.id") })
}

// All returns every user with products and their items, ordered by id.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.withItems(ctx).Order("id").Find(&users).Error
	return users, wrap("list", "User", err)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.withItems(ctx).First(&user, id).Error; err != nil {
		return nil, wrap("find", "User", err)
	}
	return &user, nil
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.withItems(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap("find", "User", err)
	}
	return &user, nil
}

// FindConflict reports which unique field (email first, then username) is
// already held by a user other than excludeID. It returns nil when both are
// free.
func (r *UserRepository) FindConflict(ctx context.Context, email, username string, excludeID uint) error {
	var other models.User
	err := r.db.WithContext(ctx).
		Where("(email = ? OR username = ?) AND id <> ?", email, username, excludeID).
		Order("id").
		First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return wrap("check", "User", err)
	}
	if other.Email == email {
		return &ConflictError{Field: "email", Message: "Email already exists"}
	}
	return &ConflictError{Field: "username", Message: "Username already exists"}
}

// Create persists a new user after checking email and username are free.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.FindConflict(ctx, user.Email, user.Username, 0); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	err = lostRace(err, func() error { return r.FindConflict(ctx, user.Email, user.Username, 0) })
	return wrap("create", "User", err)
}

// Update persists changed columns of an existing user. Associations are
// never written through a user update.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.FindConflict(ctx, user.Email, user.Username, user.ID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
	err = lostRace(err, func() error { return r.FindConflict(ctx, user.Email, user.Username, user.ID) })
	return wrap("update", "User", err)
}

// Delete removes the user, its products and their items in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return wrap("delete", "User", err)
		}

		products := tx.Model(&models.Product{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("product_id IN (?)", products).Delete(&models.ProductItem{}).Error; err != nil {
			return wrap("delete", "ProductItem", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return wrap("delete", "Product", err)
		}
		return wrap("delete", "User", tx.Delete(&models.User{}, id).Error)
	})
}
