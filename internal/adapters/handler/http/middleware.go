package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type contextKey string

const PrincipalKey contextKey = "principal"

var errUnauthenticated = errors.New("missing or invalid access token")

// Authenticate verifies the HS256 access token issued by the identity
// service and loads the caller from the users table, so a role change is
// visible on the caller's next request. The token is read from the
// access_token cookie or an Authorization bearer header.
func Authenticate(secret []byte, users ports.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromToken(r, secret)
			if err != nil {
				writeError(w, r, errUnauthenticated)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					writeError(w, r, errUnauthenticated)
					return
				}
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, domain.PrincipalOf(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the caller stored by Authenticate. The zero
// Principal is unauthenticated.
func PrincipalFrom(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(PrincipalKey).(domain.Principal)
	return p
}

func userIDFromToken(r *http.Request, secret []byte) (uuid.UUID, error) {
	raw := bearerToken(r)
	if raw == "" {
		return uuid.Nil, errUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
