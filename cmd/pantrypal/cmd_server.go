package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/internal/kernel"
	"github.com/pantrypal/pantrypal/internal/server"
	"github.com/pantrypal/pantrypal/pkg/database"
	"github.com/pantrypal/pantrypal/pkg/logger"
	"github.com/pantrypal/pantrypal/pkg/migration"
	"github.com/pantrypal/pantrypal/pkg/session"
)

// pantrypal serve: HTTP API plus the gRPC health listener.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		if uri := config.LogMongoURI(); uri != "" {
			closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
			if err != nil {
				slog.Warn("mongo log sink disabled", "error", err)
			} else {
				defer closeLogs()
			}
		}

		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer database.Close(db)
		warnPending(db)

		store, closeStore := sessionStore(cmd.Context())
		defer closeStore()

		k := kernel.NewHTTPKernel(kernel.Options{
			DB:             db,
			Sessions:       store,
			SessionOptions: session.DefaultOptions(),
			CORSOrigins:    config.CORSOrigins(),
			RateLimit:      config.RateLimit(),
			StaticDir:      config.StaticDir(),
		})
		defer k.Close()

		return server.Run(cmd.Context(), server.Config{
			Addr:     ":" + config.AppPort(),
			Handler:  k.Handler(),
			GRPCPort: config.GRPCPort(),
			Check:    func(ctx context.Context) error { return database.Ping(ctx, db) },
		})
	},
}

// sessionStore dials Redis when configured. An unreachable Redis falls back
// to the in-process store so a single instance still serves logins.
func sessionStore(ctx context.Context) (session.Store, func()) {
	if config.SessionDriver() == "memory" {
		return session.NewMemoryStore(), func() {}
	}
	rdb, err := session.DialRedis(ctx, config.RedisAddr(), config.RedisPassword(), config.RedisDB())
	if err != nil {
		slog.Warn("redis unavailable, using in-memory sessions", "addr", config.RedisAddr(), "error", err)
		return session.NewMemoryStore(), func() {}
	}
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }
}

// pantrypal route:list: print every named route.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout(), nil)
	},
}

// printRoutes builds the kernel without touching the database; handlers
// are never invoked.
func printRoutes(out io.Writer, db *gorm.DB) error {
	k := kernel.NewHTTPKernel(kernel.Options{DB: db, Sessions: session.NewMemoryStore()})
	defer k.Close()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range k.Router().Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

// warnPending logs migrations that have not been applied yet. The server
// still starts so that a rolling deploy can migrate after boot.
func warnPending(db *gorm.DB) []string {
	pending, err := migration.New(db).Pending()
	if err != nil {
		slog.Warn("could not read migration status", "error", err)
		return nil
	}
	if len(pending) > 0 {
		slog.Warn("database has pending migrations, run `pantrypal migrate`", "pending", pending)
	}
	return pending
}
