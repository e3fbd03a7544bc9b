package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote inserts the vote unless the user already voted for that
	// option, in which case vote is overwritten with the existing row and
	// created is false.
	SaveVote(ctx context.Context, vote *domain.Vote) (created bool, err error)
	UserVotes(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
}

type VoteService interface {
	Vote(ctx context.Context, principal domain.Principal, input VoteInput) (*domain.Vote, bool, error)
}
