package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/policy"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	clock    domain.Clock
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, clock domain.Clock) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		clock:    clock,
	}
}

// Vote records the principal's vote for one option. Voting again for the
// same option is not an error: the existing vote is returned and created is
// false. Members may hold votes on several options of the same poll.
func (s *voteService) Vote(ctx context.Context, principal domain.Principal, input ports.VoteInput) (*domain.Vote, bool, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, false, err
	}
	if !policy.Can(principal, poll, policy.Vote) {
		return nil, false, domain.ErrForbidden
	}

	now := s.clock.Now()
	if !poll.IsActive(now) {
		return nil, false, domain.ErrPollExpired
	}

	if _, ok := poll.Option(input.OptionID); !ok {
		return nil, false, domain.ErrOptionNotFound
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		UserID:    principal.UserID,
		OptionID:  input.OptionID,
		CreatedAt: now,
	}

	created, err := s.voteRepo.SaveVote(ctx, vote)
	if err != nil {
		return nil, false, err
	}

	return vote, created, nil
}
