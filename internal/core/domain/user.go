package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated caller of a request. It is rebuilt from the
// users table on every request so role changes apply immediately.
type Principal struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil
}

func PrincipalOf(u *User) Principal {
	return Principal{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
