// Package migrations registers the Pantry Pal schema changes. Import it for
// its side effects before running a migration.Runner.
package migrations
