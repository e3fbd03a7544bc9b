// Package repository opens the configured database and wires the
// matching repository implementations.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/gamenight/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/gamenight/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/gamenight/internal/config"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type Store struct {
	DB      *sql.DB
	Polls   ports.PollRepository
	Votes   ports.VoteRepository
	Results ports.PollResultRepository
	Users   ports.UserRepository
	// MaxConns bounds concurrent work against DB.
	MaxConns int
}

// Open connects to the database selected by cfg.DBDriver. Postgres is
// migrated to the latest schema; SQLite applies its schema on open.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		connStr := postgres.ConnString(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		db, err := postgres.Open(ctx, connStr, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			DB:       db,
			Polls:    postgres.NewPollRepository(db),
			Votes:    postgres.NewVoteRepository(db),
			Results:  postgres.NewPollResultRepository(db),
			Users:    postgres.NewUserRepository(db),
			MaxConns: cfg.DBMaxConns,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			DB:       db,
			Polls:    sqlite.NewPollRepository(db),
			Votes:    sqlite.NewVoteRepository(db),
			Results:  sqlite.NewPollResultRepository(db),
			Users:    sqlite.NewUserRepository(db),
			MaxConns: 1,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}
