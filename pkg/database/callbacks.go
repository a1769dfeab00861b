package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/pkg/metrics"
)

const startKey = "pantrypal:query_start"

// registerCallbacks times every create/query/update/delete/row/raw
// statement into metrics.DBQueryDuration.
func registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, markStart); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) { observe(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startKey, time.Now())
}

func observe(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(startKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}
	metrics.ObserveDBQuery(op, table, start)
}
