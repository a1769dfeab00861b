package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/app/repositories"
	"github.com/pantrypal/pantrypal/internal/testdb"
	"github.com/pantrypal/pantrypal/pkg/auth"
)

func init() { auth.Cost = bcrypt.MinCost }

type fixture struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	items    *repositories.ProductItemRepository
	db       *gorm.DB
}

func setup(t *testing.T) fixture {
	db := testdb.New(t)
	return fixture{
		users:    repositories.NewUserRepository(db),
		products: repositories.NewProductRepository(db),
		items:    repositories.NewProductItemRepository(db),
		db:       db,
	}
}

func (f fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := models.NewUser(name, name+"@example.com", "pw", nil)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixture) product(t *testing.T, userID uint, name string) *models.Product {
	t.Helper()
	p, err := models.NewProduct(userID, name, "Dairy", "Fridge", "cartons", 0, 1)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f fixture) item(t *testing.T, productID uint, qty int) *models.ProductItem {
	t.Helper()
	it, err := models.NewProductItem(productID, "Brookside", qty, models.NewDate(2030, time.January, 2))
	require.NoError(t, err)
	require.NoError(t, f.items.Create(context.Background(), it))
	return it
}

func TestUserCreateAndFind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := f.user(t, "dan")
	assert.NotZero(t, u.ID)

	got, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dan", got.Username)
	assert.True(t, got.CheckPassword("pw"))
	assert.Empty(t, got.Products)

	byEmail, err := f.users.FindByEmail(ctx, "dan@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = f.users.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.EqualError(t, err, "User not found")
}

func TestUserConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.user(t, "dan")

	dupEmail, err := models.NewUser("other", "dan@example.com", "pw", nil)
	require.NoError(t, err)
	err = f.users.Create(ctx, dupEmail)
	require.ErrorIs(t, err, repositories.ErrConflict)
	assert.EqualError(t, err, "Email already exists")

	dupName, err := models.NewUser("dan", "fresh@example.com", "pw", nil)
	require.NoError(t, err)
	err = f.users.Create(ctx, dupName)
	var ce *repositories.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "username", ce.Field)
	assert.Equal(t, "Username already exists", ce.Message)
}

func TestUserUpdateKeepsOwnEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "dan")
	other := f.user(t, "eve")

	pic := "https://picsum.photos/983/458"
	require.NoError(t, models.UserPatch{Picture: models.Some(pic)}.Apply(u))
	require.NoError(t, f.users.Update(ctx, u))

	got, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Picture)
	assert.Equal(t, pic, *got.Picture)

	taken := "eve@example.com"
	require.NoError(t, models.UserPatch{Email: &taken}.Apply(got))
	assert.ErrorIs(t, f.users.Update(ctx, got), repositories.ErrConflict)

	unchanged, err := f.users.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "eve@example.com", unchanged.Email)
}

func TestUserDeleteCascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	dan := f.user(t, "dan")
	eve := f.user(t, "eve")
	milk := f.product(t, dan.ID, "Milk")
	bread := f.product(t, dan.ID, "Bread")
	keep := f.product(t, eve.ID, "Milk")
	it1 := f.item(t, milk.ID, 2)
	it2 := f.item(t, bread.ID, 1)
	kept := f.item(t, keep.ID, 5)

	loaded, err := f.users.FindByID(ctx, dan.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 2)
	assert.Len(t, loaded.Products[0].ProductItems, 1)

	require.NoError(t, f.users.Delete(ctx, dan.ID))

	_, err = f.users.FindByID(ctx, dan.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	for _, id := range []uint{milk.ID, bread.ID} {
		_, err = f.products.FindByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	}
	for _, id := range []uint{it1.ID, it2.ID} {
		_, err = f.items.FindByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	}

	_, err = f.products.FindByID(ctx, keep.ID)
	assert.NoError(t, err)
	_, err = f.items.FindByID(ctx, kept.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.users.Delete(ctx, dan.ID), repositories.ErrNotFound)
}

func TestProductUniquePerUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dan := f.user(t, "dan")
	eve := f.user(t, "eve")

	f.product(t, dan.ID, "Milk")
	f.product(t, eve.ID, "Milk")

	again, err := models.NewProduct(dan.ID, "Milk", "Dairy", "Fridge", "cartons", 0, 0)
	require.NoError(t, err)
	err = f.products.Create(ctx, again)
	require.ErrorIs(t, err, repositories.ErrConflict)
	assert.EqualError(t, err, "Product already exists for this user")
}

func TestProductRequiresOwner(t *testing.T) {
	f := setup(t)
	p, err := models.NewProduct(42, "Milk", "Dairy", "Fridge", "cartons", 0, 0)
	require.NoError(t, err)

	err = f.products.Create(context.Background(), p)
	require.ErrorIs(t, err, repositories.ErrNotFound)
	assert.EqualError(t, err, "User not found")
}

func TestProductUpdateAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	dan := f.user(t, "dan")
	milk := f.product(t, dan.ID, "Milk")
	f.product(t, dan.ID, "Bread")
	it := f.item(t, milk.ID, 3)

	loc := "Pantry"
	require.NoError(t, models.ProductPatch{Location: &loc}.Apply(milk))
	require.NoError(t, f.products.Update(ctx, milk))

	got, err := f.products.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pantry", got.Location)
	require.Len(t, got.ProductItems, 1)

	name := "Bread"
	require.NoError(t, models.ProductPatch{Name: &name}.Apply(got))
	assert.ErrorIs(t, f.products.Update(ctx, got), repositories.ErrConflict)

	require.NoError(t, f.products.Delete(ctx, milk.ID))
	_, err = f.items.FindByID(ctx, it.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, milk.ID), repositories.ErrNotFound)

	all, err := f.products.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bread", all[0].Name)
}

func TestProductItemLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	orphan, err := models.NewProductItem(7, "KCC", 1, models.Date{})
	require.NoError(t, err)
	assert.ErrorIs(t, f.items.Create(ctx, orphan), repositories.ErrNotFound)

	dan := f.user(t, "dan")
	milk := f.product(t, dan.ID, "Milk")
	it := f.item(t, milk.ID, 2)

	got, err := f.items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-02", got.ExpiryDate.String())

	qty := 9
	require.NoError(t, models.ProductItemPatch{Quantity: &qty, ExpiryDate: models.Null[models.Date]()}.Apply(got))
	require.NoError(t, f.items.Update(ctx, got))

	got, err = f.items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Quantity)
	assert.True(t, got.ExpiryDate.IsZero())

	all, err := f.items.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.items.Delete(ctx, it.ID))
	assert.ErrorIs(t, f.items.Delete(ctx, it.ID), repositories.ErrNotFound)
}
