package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/pkg/bind"
)

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func decode(body string) (loginInput, map[string]string, error) {
	var in loginInput
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	errs, err := bind.JSON(req, &in)
	return in, errs, err
}

func TestJSONValid(t *testing.T) {
	in, errs, err := decode(`{"email":"dan@example.com","password":"munene"}`)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "dan@example.com", in.Email)
}

func TestJSONValidationErrors(t *testing.T) {
	_, errs, err := decode(`{"email":"nope"}`)
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestJSONRejects(t *testing.T) {
	cases := map[string]string{
		"empty body":    ``,
		"syntax":        `{"email":`,
		"unknown field": `{"email":"a@b.co","password":"x","password_hash":"h"}`,
		"wrong type":    `{"email":5,"password":"x"}`,
		"trailing data": `{"email":"a@b.co","password":"x"} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := decode(body)
			assert.Error(t, err)
		})
	}

	_, _, err := decode(`{"email":"a@b.co","password":"x","password_hash":"h"}`)
	assert.EqualError(t, err, `unknown field "password_hash"`)
}

func TestJSONBodyTooLarge(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "1048576") })

	_, _, err := decode(`{"email":"dan@example.com","password":"munene"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
