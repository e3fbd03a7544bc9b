// Command migrations applies the embedded Postgres migrations.
//
//	migrations                      # every *.up.sql, in name order
//	migrations create_polls.down    # one file, matched by suffix
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vncsmyrnk/gamenight/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/gamenight/internal/config"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Parse("migrations", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Fatalf("migrations only apply to postgres, got %q", cfg.DBDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	connStr := postgres.ConnString(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := postgres.Open(ctx, connStr, 1)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if len(cfg.Args) > 0 {
		err = postgres.ApplyMigration(ctx, db, cfg.Args[0])
	} else {
		err = postgres.Migrate(ctx, db)
	}
	if err != nil {
		log.Fatalf("Failed to execute migration: %v", err)
	}

	fmt.Println("Migration executed successfully.")
}
