// Package repositories persists the pantry entities through GORM. Every
// mutating method commits exactly once.
package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id or lookup key matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would break a unique constraint.
	ErrConflict = errors.New("conflict")
)

// NotFoundError names the entity that was missing, e.g. "User".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError names the field whose value is already taken.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

func notFound(entity string) error { return &NotFoundError{Entity: entity} }

// wrap maps GORM errors onto the package sentinels.
func wrap(op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity)
	case isDuplicate(err):
		return &ConflictError{Message: entity + " already exists"}
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	}
	return fmt.Errorf("repositories: %s %s: %w", op, entity, err)
}

// isDuplicate reports a unique-index violation, translated by GORM or in
// SQLite's raw form.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// lostRace handles a write that passed the conflict check but hit the
// unique index because a concurrent writer got there first. recheck runs
// the check again so the error still names the clashing field.
func lostRace(err error, recheck func() error) error {
	if err == nil || !isDuplicate(err) {
		return err
	}
	if cerr := recheck(); cerr != nil {
		return cerr
	}
	return err
}
