package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"flag"
	"log"
	"os"

	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/storage/db"
)

func main() {
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{MaxOpenConns: 1, PingTimeout: cfg.DBPingTimeout})
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	default:
		log.Printf("unknown command %q (want up, down or status)", command)
		sqlDB.Close()
		os.Exit(2)
	}
	if err != nil {
		log.Printf("migrate %s failed: %v", command, err)
		sqlDB.Close()
		os.Exit(1)
	}
}
