// Package migration runs versioned schema changes and records them in a
// batch-tracking table.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20240101000000_create_pantry_tables", &CreatePantryTables{})
//	}
//
// Run from the CLI:
//
//	pantrypal migrate             // run all pending
//	pantrypal migrate:rollback    // roll back the last batch
//	pantrypal migrate:status      // list ran and pending
package migration

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "pantrypal_migrations" }

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []registeredMigration
)

// Register adds a migration. name is timestamp-prefixed so that names sort
// chronologically; registering the same name twice panics.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	for _, reg := range registry {
		if reg.name == name {
			panic(fmt.Sprintf("migration: %s registered twice", name))
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	mu.Lock()
	defer mu.Unlock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress on stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// WithOutput redirects progress lines.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Pending returns the names of migrations that have not yet been run.
func (r *Runner) Pending() ([]string, error) {
	regs, err := r.pending()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.name
	}
	return names, nil
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registered() {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

// Run executes all pending migrations as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return fmt.Errorf("up: %w", err)
			}
			return tx.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration from the most recent batch, newest
// first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last, err := r.lastBatch()
	if err != nil {
		return err
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", last, err)
	}

	regMap := make(map[string]Migration)
	for _, reg := range registered() {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("down: %w", err)
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// StatusRow describes one registered migration.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	var rows []StatusRow
	for _, reg := range registered() {
		rec, ok := ranMap[reg.name]
		rows = append(rows, StatusRow{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return rows, nil
}

// PrintStatus writes the Status table to the runner's output.
func (r *Runner) PrintStatus() error {
	rows, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, row := range rows {
		if row.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", row.Name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", row.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() (int, error) {
	var last sql.NullInt64
	if err := r.db.Model(&migrationRecord{}).Select("MAX(batch)").Row().Scan(&last); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(last.Int64), nil
}
