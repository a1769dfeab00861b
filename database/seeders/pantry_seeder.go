package seeders

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrypal/pantrypal/app/models"
)

func init() {
	Register("pantry", SeedPantry)
}

type sampleUser struct {
	username, email, password, picture string
}

// The last entry is the demo account used to log in to the front end.
var sampleUsers = []sampleUser{
	{"amina", "amina.wanjiru@example.com", "pantry-amina", "https://picsum.photos/640/480?image=11"},
	{"brian", "brian.otieno@example.com", "pantry-brian", "https://picsum.photos/640/480?image=22"},
	{"carol", "carol.njeri@example.com", "pantry-carol", "https://picsum.photos/640/480?image=33"},
	{"derek", "derek.kamau@example.com", "pantry-derek", "https://picsum.photos/640/480?image=44"},
	{"dan", "danspmunene@gmail.com", "munene", "https://picsum.photos/983/458"},
}

type sampleProduct struct {
	name, category, location, unit string
	lowStock                       int
	items                          []sampleItem
}

type sampleItem struct {
	brand     string
	quantity  int
	expiresIn int // days from today; 0 means no expiry date
}

var sampleProducts = []sampleProduct{
	{"Milk", "Dairy", "Fridge", "cartons", 2, []sampleItem{{"Brookside", 2, 5}, {"KCC", 1, 9}}},
	{"Rice", "Grains", "Pantry", "kg", 1, []sampleItem{{"Pishori", 3, 0}}},
	{"Eggs", "Dairy", "Fridge", "trays", 1, []sampleItem{{"Kenchic", 1, 14}}},
	{"Tomatoes", "Vegetables", "Counter", "pcs", 4, []sampleItem{{"Local", 6, 4}}},
	{"Flour", "Baking", "Pantry", "kg", 1, []sampleItem{{"Jogoo", 2, 180}, {"Exe", 1, 200}}},
}

// SeedPantry clears every table and inserts the sample users, each owning
// the sample products with their items. Product quantities are recomputed
// from the items.
func SeedPantry(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}

		today := time.Now().UTC()
		for _, su := range sampleUsers {
			pic := su.picture
			u, err := models.NewUser(su.username, su.email, su.password, &pic)
			if err != nil {
				return fmt.Errorf("user %s: %w", su.username, err)
			}
			if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
				return fmt.Errorf("user %s: %w", su.username, err)
			}

			for _, sp := range sampleProducts {
				if err := seedProduct(tx, u.ID, sp, today); err != nil {
					return fmt.Errorf("user %s: %w", su.username, err)
				}
			}
		}
		return nil
	})
}

func seedProduct(tx *gorm.DB, userID uint, sp sampleProduct, today time.Time) error {
	p, err := models.NewProduct(userID, sp.name, sp.category, sp.location, sp.unit, 0, sp.lowStock)
	if err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("product %s: %w", sp.name, err)
	}

	for _, si := range sp.items {
		var expiry models.Date
		if si.expiresIn > 0 {
			d := today.AddDate(0, 0, si.expiresIn)
			expiry = models.NewDate(d.Year(), d.Month(), d.Day())
		}
		it, err := models.NewProductItem(p.ID, si.brand, si.quantity, expiry)
		if err != nil {
			return err
		}
		if err := tx.Create(it).Error; err != nil {
			return fmt.Errorf("item %s: %w", si.brand, err)
		}
		p.ProductItems = append(p.ProductItems, *it)
	}

	p.RecomputeQuantity()
	return tx.Model(p).Update("quantity", p.Quantity).Error
}

// clearTables deletes children before parents.
func clearTables(tx *gorm.DB) error {
	for _, m := range []interface{}{&models.ProductItem{}, &models.Product{}, &models.User{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	return nil
}
