package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := Open(ctx, connStr, 8)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func createUser(t *testing.T, db *sql.DB, username string, isAdmin bool) *domain.User {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Username: username, IsAdmin: isAdmin}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newPoll(creator *domain.User, now time.Time, labels ...string) *domain.Poll {
	poll := &domain.Poll{
		ID:              uuid.New(),
		Title:           "Friday game night",
		CreatorID:       creator.ID,
		CreatorUsername: creator.Username,
		CreatedAt:       now,
	}
	for i, label := range labels {
		poll.Options = append(poll.Options, domain.Option{
			ID:        uuid.New(),
			PollID:    poll.ID,
			Kind:      domain.OptionText,
			Text:      label,
			Position:  i + 1,
			CreatedAt: now,
		})
	}
	return poll
}

func mustCount(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}
