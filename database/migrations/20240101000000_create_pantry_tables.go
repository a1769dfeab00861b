package migrations

import (
	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_pantry_tables", &CreatePantryTables{})
}

// CreatePantryTables creates users, products and product_items. The three
// are migrated together so the foreign keys resolve.
type CreatePantryTables struct{}

func (m *CreatePantryTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductItem{})
}

func (m *CreatePantryTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.ProductItem{}, &models.Product{}, &models.User{})
}
