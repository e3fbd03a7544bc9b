package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	db      *sql.DB
	clock   *fakeClock
	users   ports.UserRepository
	polls   ports.PollService
	votes   ports.VoteService
	results ports.ResultService
	reports ports.ReportService
	members ports.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &fakeClock{now: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}

	pollRepo := sqlite.NewPollRepository(db)
	voteRepo := sqlite.NewVoteRepository(db)
	resultRepo := sqlite.NewPollResultRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	return &testEnv{
		db:      db,
		clock:   clock,
		users:   userRepo,
		polls:   NewPollService(pollRepo, voteRepo, clock),
		votes:   NewVoteService(pollRepo, voteRepo, clock),
		results: NewResultService(pollRepo, voteRepo, resultRepo, clock),
		reports: NewReportService(pollRepo, resultRepo, clock, 4),
		members: NewUserService(userRepo),
	}
}

func (e *testEnv) member(t *testing.T, username string, isAdmin bool) domain.Principal {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Username: username, IsAdmin: isAdmin}
	require.NoError(t, e.users.Create(context.Background(), user))
	return domain.PrincipalOf(user)
}

func (e *testEnv) createPoll(t *testing.T, creator domain.Principal, expiresIn time.Duration, labels ...string) *domain.Poll {
	t.Helper()
	input := ports.CreatePollInput{Title: "Game night"}
	if expiresIn > 0 {
		expiresAt := e.clock.Now().Add(expiresIn)
		input.ExpiresAt = &expiresAt
	}
	for _, label := range labels {
		input.Options = append(input.Options, ports.RawOption{Value: label})
	}

	poll, err := e.polls.Create(context.Background(), creator, input)
	require.NoError(t, err)
	return poll
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}
