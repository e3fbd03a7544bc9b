package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollResults struct {
	Poll            *Poll          `json:"poll"`
	Active          bool           `json:"active"`
	TotalVotes      int64          `json:"total_votes"`
	TotalVoters     int64          `json:"total_voters"`
	Options         []OptionResult `json:"options"`
	LeadingOptionID *uuid.UUID     `json:"leading_option_id,omitempty"`
	UserVotes       []uuid.UUID    `json:"user_votes"`
}

type OptionResult struct {
	Option     Option  `json:"option"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// OptionVoters lists who voted for one option, oldest vote first.
type OptionVoters struct {
	Option Option  `json:"option"`
	Voters []Voter `json:"voters"`
}

type Voter struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	VotedAt  time.Time `json:"voted_at"`
}
