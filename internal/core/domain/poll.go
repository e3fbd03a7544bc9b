package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	CreatorID       uuid.UUID  `json:"creator_id"`
	CreatorUsername string     `json:"creator_username,omitempty"`
	Options         []Option   `json:"options,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// IsActive reports whether the poll accepts votes and option edits at now.
// A poll without an expiration never expires.
func (p *Poll) IsActive(now time.Time) bool {
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}

// Option returns the option with the given id, if it belongs to the poll.
func (p *Poll) Option(id uuid.UUID) (Option, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

type OptionKind string

const (
	OptionText     OptionKind = "text"
	OptionDateTime OptionKind = "datetime"
)

type Option struct {
	ID        uuid.UUID  `json:"id"`
	PollID    uuid.UUID  `json:"poll_id"`
	Kind      OptionKind `json:"kind"`
	Text      string     `json:"text,omitempty"`
	DateTime  *time.Time `json:"date_time,omitempty"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
}

// PollView is a poll as seen by one member: its options plus the ids of the
// options that member has voted for.
type PollView struct {
	Poll      *Poll       `json:"poll"`
	Active    bool        `json:"active"`
	UserVotes []uuid.UUID `json:"user_votes"`
}

type ListFilter string

const (
	ListAll     ListFilter = "all"
	ListActive  ListFilter = "active"
	ListExpired ListFilter = "expired"
)

func (f ListFilter) Valid() bool {
	switch f {
	case ListAll, ListActive, ListExpired:
		return true
	}
	return false
}
