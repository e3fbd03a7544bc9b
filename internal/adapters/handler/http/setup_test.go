package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
	"github.com/vncsmyrnk/gamenight/internal/core/services"
)

var testSecret = []byte("test-secret")

type TestApp struct {
	Server *httptest.Server
	Client *http.Client
	Users  ports.UserRepository
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := domain.SystemClock{}
	pollRepo := sqlite.NewPollRepository(db)
	voteRepo := sqlite.NewVoteRepository(db)
	resultRepo := sqlite.NewPollResultRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	userSvc := services.NewUserService(userRepo)
	router := NewHandler(
		NewPollHandler(services.NewPollService(pollRepo, voteRepo, clock)),
		NewVoteHandler(services.NewVoteService(pollRepo, voteRepo, clock)),
		NewResultHandler(services.NewResultService(pollRepo, voteRepo, resultRepo, clock)),
		NewUserHandler(userSvc),
		Authenticate(testSecret, userSvc),
		db,
		[]string{"*"},
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestApp{
		Server: server,
		Client: server.Client(),
		Users:  userRepo,
	}
}

// createUserAndToken stores a member and signs an access token for it the
// way the identity service does.
func (app *TestApp) createUserAndToken(t *testing.T, username string, isAdmin bool) (*domain.User, string) {
	t.Helper()

	user := &domain.User{ID: uuid.New(), Username: username, IsAdmin: isAdmin}
	require.NoError(t, app.Users.Create(context.Background(), user))

	return user, signToken(t, user.ID.String(), time.Now().Add(15*time.Minute))
}

func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (app *TestApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
