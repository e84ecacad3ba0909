package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexthub/intranet-backend/internal/config"
	"github.com/nexthub/intranet-backend/internal/migration"
	pkglogger "github.com/nexthub/intranet-backend/pkg/logger"
)

// Runs schema and content migrations against the configured database and
// exits. Meant for deploy pipelines; the API server also applies pending
// migrations at startup.
func main() {
	dir := flag.String("dir", "content-migrations", "directory with content migration YAML files")
	dryRun := flag.Bool("dry-run", false, "list pending migrations without applying them")
	flag.Parse()

	config.LoadDotEnv()
	pkglogger.Init()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))

	// Maintenance runs can use an elevated-privilege DSN; fall back to the
	// regular one.
	dsn := os.Getenv("MIGRATE_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		pkglogger.Fatal("MIGRATE_DATABASE_URL or DATABASE_URL must be set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		pkglogger.Fatal("Failed to connect to database: %v", err)
	}

	start := time.Now()
	if err := migration.Run(db); err != nil {
		pkglogger.Fatal("Schema migration failed: %v", err)
	}

	contentMigrations, err := migration.LoadDir(*dir)
	if err != nil {
		pkglogger.Fatal("Content migrations are invalid: %v", err)
	}

	if *dryRun {
		listPending(db, contentMigrations)
		return
	}

	applied, err := migration.Apply(db, contentMigrations)
	if err != nil {
		pkglogger.Fatal("Content migration failed: %v", err)
	}
	pkglogger.Info("Done: %d applied in %s", applied, time.Since(start).Round(time.Millisecond))
}

func listPending(db *gorm.DB, all []migration.ContentMigration) {
	var ledger []migration.AppliedMigration
	if err := db.Find(&ledger).Error; err != nil {
		pkglogger.Fatal("Failed to read migration ledger: %v", err)
	}
	applied := make(map[string]bool, len(ledger))
	for _, row := range ledger {
		applied[row.Version] = true
	}

	pending := migration.Pending(all, applied)
	if len(pending) == 0 {
		fmt.Println("No pending content migrations")
		return
	}
	for _, m := range pending {
		fmt.Printf("pending: %s  %s\n", m.Version, m.Description)
	}
}
