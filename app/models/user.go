package models

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/pkg/auth"
)

// User owns products. The password hash is never serialized.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username" validate:"required,max=50"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email,max=255"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Picture      *string   `json:"picture"`
	Products     []Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"products"`
}

// NewUser validates the fields and hashes password before anything is
// persisted.
func NewUser(username, email, password string, picture *string) (*User, error) {
	u := &User{Username: username, Email: email, Picture: picture, Products: []Product{}}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	return check(u)
}

// SetPassword stores a salted hash of plain.
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return &ValidationError{Fields: map[string]string{"password": "The password field is required."}}
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return fmt.Errorf("models: user password: %w", err)
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return auth.CheckPassword(u.PasswordHash, plain)
}

func (u *User) BeforeSave(*gorm.DB) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return &ValidationError{Fields: map[string]string{"password": "The password field is required."}}
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("<User %s | Email: %s>", u.Username, u.Email)
}

// UserPatch lists the user fields a client may change.
type UserPatch struct {
	Username *string          `json:"username"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Picture  Optional[string] `json:"picture"`
}

// Apply copies the set fields onto u, re-hashing the password when given,
// and validates the result. A null or empty picture clears it.
func (p UserPatch) Apply(u *User) error {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Picture.Set {
		if p.Picture.Value == nil || *p.Picture.Value == "" {
			u.Picture = nil
		} else {
			pic := *p.Picture.Value
			u.Picture = &pic
		}
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if p.Password != nil {
		return u.SetPassword(*p.Password)
	}
	return nil
}
