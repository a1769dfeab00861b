package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pantrypal/pantrypal/app/models"
	"github.com/pantrypal/pantrypal/pkg/auth"
)

func init() { auth.Cost = bcrypt.MinCost }

func strptr(s string) *string { return &s }

func TestNewUserHashesPassword(t *testing.T) {
	u, err := models.NewUser("dan", "danspmunene@gmail.com", "munene", strptr("https://picsum.photos/983/458"))
	require.NoError(t, err)

	assert.NotEqual(t, "munene", u.PasswordHash)
	assert.True(t, u.CheckPassword("munene"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, "<User dan | Email: danspmunene@gmail.com>", u.String())
}

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name, username, email, password, field string
	}{
		{"missing username", "", "a@b.co", "pw", "username"},
		{"long username", strings.Repeat("u", 51), "a@b.co", "pw", "username"},
		{"missing email", "dan", "", "pw", "email"},
		{"bad email", "dan", "not-an-email", "pw", "email"},
		{"missing password", "dan", "a@b.co", "", "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.NewUser(tc.username, tc.email, tc.password, nil)
			ve, ok := models.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u, err := models.NewUser("dan", "dan@example.com", "secret", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, out, "PasswordHash")
	assert.NotContains(t, string(raw), u.PasswordHash)
	assert.Equal(t, []any{}, out["products"])
	assert.Nil(t, out["picture"])
}

func TestUserPatchApply(t *testing.T) {
	u, err := models.NewUser("dan", "dan@example.com", "secret", strptr("old.png"))
	require.NoError(t, err)
	oldHash := u.PasswordHash

	err = models.UserPatch{Username: strptr("danny"), Password: strptr("new-secret"), Picture: models.Some("")}.Apply(u)
	require.NoError(t, err)
	assert.Equal(t, "danny", u.Username)
	assert.Nil(t, u.Picture)
	assert.NotEqual(t, oldHash, u.PasswordHash)
	assert.True(t, u.CheckPassword("new-secret"))

	err = models.UserPatch{Email: strptr("nope")}.Apply(u)
	_, ok := models.AsValidationError(err)
	assert.True(t, ok)
}

func TestUserPatchPictureNull(t *testing.T) {
	u, err := models.NewUser("dan", "dan@example.com", "secret", strptr("old.png"))
	require.NoError(t, err)

	var patch models.UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"username":"danny"}`), &patch))
	require.NoError(t, patch.Apply(u))
	require.NotNil(t, u.Picture, "absent key keeps the picture")
	assert.Equal(t, "old.png", *u.Picture)

	patch = models.UserPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"picture":null}`), &patch))
	assert.True(t, patch.Picture.Set)
	require.NoError(t, patch.Apply(u))
	assert.Nil(t, u.Picture)
}

func TestProductItemPatchExpiryNull(t *testing.T) {
	it, err := models.NewProductItem(3, "Brookside", 2, models.NewDate(2024, time.August, 1))
	require.NoError(t, err)

	var patch models.ProductItemPatch
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":5}`), &patch))
	require.NoError(t, patch.Apply(it))
	assert.Equal(t, "2024-08-01", it.ExpiryDate.String())

	patch = models.ProductItemPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"expiry_date":null}`), &patch))
	require.NoError(t, patch.Apply(it))
	assert.True(t, it.ExpiryDate.IsZero())

	patch = models.ProductItemPatch{}
	assert.Error(t, json.Unmarshal([]byte(`{"expiry_date":"01/08/2024"}`), &patch))
}

func TestProductValidationAndHelpers(t *testing.T) {
	_, err := models.NewProduct(1, "", "Dairy", "Fridge", "cartons", 0, 0)
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")

	_, err = models.NewProduct(0, "Milk", "Dairy", "Fridge", "cartons", 0, 0)
	ve, ok = models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "user_id")

	p, err := models.NewProduct(1, "Milk", "Dairy", "Fridge", "cartons", 0, 2)
	require.NoError(t, err)
	p.ProductItems = []models.ProductItem{{Quantity: 1}, {Quantity: 4}}
	assert.Equal(t, 5, p.RecomputeQuantity())
	assert.False(t, p.IsLowStock())

	require.NoError(t, models.ProductPatch{Quantity: intptr(2)}.Apply(p))
	assert.True(t, p.IsLowStock())
}

func TestProductJSONIncludesLowStock(t *testing.T) {
	p := models.Product{ID: 3, Name: "Milk", UserID: 1, Quantity: 1, LowStock: 2}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["is_low_stock"])
	assert.Equal(t, "Milk", got["name"])
	assert.EqualValues(t, 3, got["id"])

	p.Quantity = 3
	raw, err = json.Marshal(&p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"is_low_stock":false`)
}

func intptr(n int) *int { return &n }

func TestProductItemDateJSON(t *testing.T) {
	it, err := models.NewProductItem(3, "Brookside", 2, models.NewDate(2024, time.August, 1))
	require.NoError(t, err)

	raw, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"product_id":3,"brand_name":"Brookside","quantity":2,"expiry_date":"2024-08-01"}`, string(raw))

	var back models.ProductItem
	require.NoError(t, json.Unmarshal([]byte(`{"brand_name":"KCC","expiry_date":null}`), &back))
	assert.True(t, back.ExpiryDate.IsZero())

	err = json.Unmarshal([]byte(`{"expiry_date":"01/08/2024"}`), &back)
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d models.Date
	require.NoError(t, d.Scan("2025-01-31"))
	assert.Equal(t, "2025-01-31", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 2, 1, 13, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2025-02-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-03-02T00:00:00Z")))
	assert.Equal(t, "2025-03-02", d.String())

	require.NoError(t, d.Scan(nil))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}
