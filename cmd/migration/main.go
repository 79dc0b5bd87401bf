package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/config"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	defaultDB := filepath.Join("data", "tracker.db")
	if cfg, err := config.Load(); err == nil {
		defaultDB = cfg.SQLitePath
	}

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDB := migrateCmd.String("db", defaultDB, "Path to SQLite database")
	migrateDir := migrateCmd.String("dir", "", "Directory containing migrations (default: bundled)")

	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	statusDB := statusCmd.String("db", defaultDB, "Path to SQLite database")
	statusDir := statusCmd.String("dir", "", "Directory containing migrations (default: bundled)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(ctx, *migrateDB, *migrateDir)

	case "status":
		statusCmd.Parse(os.Args[2:])
		showStatus(ctx, *statusDB, *statusDir)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migration migrate [-db PATH] [-dir DIR]  - Apply pending migrations")
	fmt.Println("  migration status  [-db PATH] [-dir DIR]  - List applied and pending migrations")
	fmt.Println("  migration help                           - Show this help")
}

func openMigrator(dbPath, dir string) (*sql.DB, *migrations.Migrator) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	logger := logging.NewLogger(logging.INFO)
	if dir == "" {
		return db, migrations.NewEmbeddedMigrator(db, logger)
	}
	return db, migrations.NewMigrator(db, os.DirFS(dir), ".", logger)
}

func applyMigrations(ctx context.Context, dbPath, dir string) {
	db, migrator := openMigrator(dbPath, dir)
	defer db.Close()

	applied, err := migrator.MigrateUp(ctx)
	if err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}

	fmt.Printf("Applied %d migration(s) to %s\n", applied, dbPath)
}

func showStatus(ctx context.Context, dbPath, dir string) {
	db, migrator := openMigrator(dbPath, dir)
	defer db.Close()

	if err := migrator.Initialize(ctx); err != nil {
		log.Fatalf("Error initializing migrations table: %v", err)
	}
	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		log.Fatalf("Error reading applied migrations: %v", err)
	}
	all, err := migrator.LoadMigrations()
	if err != nil {
		log.Fatalf("Error loading migrations: %v", err)
	}

	for _, m := range all {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Printf("%s  %-8s %s\n", m.Version, state, m.Description)
	}
}
