package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	foreignKeyViolation pq.ErrorCode = "23503"
	uniqueViolation     pq.ErrorCode = "23505"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func ConnString(host, port, user, password, dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

// Open connects to Postgres with a bounded pool. Callers block on the pool
// when all maxConns connections are busy.
func Open(ctx context.Context, connStr string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies every embedded *.up.sql file in name order.
func Migrate(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := execMigration(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMigration runs the single embedded migration whose file name ends
// with migrationName, e.g. "create_polls.down".
func ApplyMigration(ctx context.Context, db *sql.DB, migrationName string) error {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return fmt.Errorf("invalid migration name: %w", err)
	}

	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && regex.MatchString(entry.Name()) {
			return execMigration(ctx, db, entry.Name())
		}
	}

	return fmt.Errorf("migration %q not found", migrationName)
}

func execMigration(ctx context.Context, db *sql.DB, name string) error {
	content, err := migrationFiles.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}

func errorCode(err error) (pq.ErrorCode, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr.Constraint
	}
	return "", ""
}

// voteInsertError maps constraint failures of a vote insert to domain errors.
func voteInsertError(err error) error {
	code, constraint := errorCode(err)
	if code != foreignKeyViolation {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	if strings.Contains(constraint, "user_id") {
		return domain.ErrUserNotFound
	}
	return domain.ErrOptionNotFound
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
