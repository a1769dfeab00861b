package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/pkg/migration"
)

func init() {
	migration.Register("20240102000000_add_unique_constraint_on_product_name_user_id", &AddUniqueProductPerUser{})
}

// AddUniqueProductPerUser guarantees a user cannot hold two products with
// the same name.
type AddUniqueProductPerUser struct{}

func (m *AddUniqueProductPerUser) Up(db *gorm.DB) error {
	if db.Migrator().HasIndex(&models.Product{}, models.UniqueProductPerUser) {
		return nil
	}
	sql := fmt.Sprintf("CREATE UNIQUE INDEX %s ON products (name, user_id)", models.UniqueProductPerUser)
	return db.Exec(sql).Error
}

func (m *AddUniqueProductPerUser) Down(db *gorm.DB) error {
	if !db.Migrator().HasIndex(&models.Product{}, models.UniqueProductPerUser) {
		return nil
	}
	return db.Migrator().DropIndex(&models.Product{}, models.UniqueProductPerUser)
}
