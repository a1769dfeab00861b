package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/internal/testdb"
	"github.com/pantrypal/pantrypal/pkg/auth"
)

// A write that slips past FindConflict still reports the clashing field.
func TestLostRaceNamesField(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	db := testdb.New(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	products := NewProductRepository(db)

	dan, err := models.NewUser("dan", "dan@example.com", "secret", nil)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, dan))

	twin, err := models.NewUser("danny", "dan@example.com", "secret", nil)
	require.NoError(t, err)
	raw := db.Omit(clause.Associations).Create(twin).Error
	require.Error(t, raw)
	require.True(t, isDuplicate(raw), raw.Error())

	err = lostRace(raw, func() error { return users.FindConflict(ctx, twin.Email, twin.Username, 0) })
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "Email already exists", ce.Message)

	milk, err := models.NewProduct(dan.ID, "Milk", "Dairy", "Fridge", "cartons", 0, 0)
	require.NoError(t, err)
	require.NoError(t, products.Create(ctx, milk))
	again, err := models.NewProduct(dan.ID, "Milk", "Dairy", "Fridge", "cartons", 0, 0)
	require.NoError(t, err)
	raw = db.Omit(clause.Associations).Create(again).Error
	require.Error(t, raw)

	err = wrap("create", "Product", lostRace(raw, func() error { return products.FindConflict(ctx, again.Name, again.UserID, 0) }))
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "name", ce.Field)
	assert.Equal(t, "Product already exists for this user", ce.Message)
}

func TestLostRacePassesOtherErrors(t *testing.T) {
	other := errors.New("disk full")
	called := false
	err := lostRace(other, func() error { called = true; return nil })
	assert.Same(t, other, err)
	assert.False(t, called)

	assert.NoError(t, lostRace(nil, func() error { return errors.New("unused") }))

	dup := fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
	assert.Equal(t, dup, lostRace(dup, func() error { return nil }))
}
