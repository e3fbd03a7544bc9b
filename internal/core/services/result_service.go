package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/policy"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type resultService struct {
	pollRepo   ports.PollRepository
	voteRepo   ports.VoteRepository
	resultRepo ports.PollResultRepository
	clock      domain.Clock
}

func NewResultService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, resultRepo ports.PollResultRepository, clock domain.Clock) ports.ResultService {
	return &resultService{
		pollRepo:   pollRepo,
		voteRepo:   voteRepo,
		resultRepo: resultRepo,
		clock:      clock,
	}
}

func (s *resultService) Results(ctx context.Context, principal domain.Principal, pollID uuid.UUID) (*domain.PollResults, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(principal, poll, policy.ViewPoll) {
		return nil, domain.ErrForbidden
	}

	results, err := computeResults(ctx, s.resultRepo, poll, s.clock.Now())
	if err != nil {
		return nil, err
	}

	results.UserVotes, err = s.voteRepo.UserVotes(ctx, poll.ID, principal.UserID)
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (s *resultService) Voters(ctx context.Context, principal domain.Principal, pollID uuid.UUID) ([]domain.OptionVoters, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(principal, poll, policy.ViewVoters) {
		return nil, domain.ErrForbidden
	}

	byOption, err := s.resultRepo.Voters(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.OptionVoters, 0, len(poll.Options))
	for _, opt := range poll.Options {
		voters := byOption[opt.ID]
		if voters == nil {
			voters = []domain.Voter{}
		}
		out = append(out, domain.OptionVoters{Option: opt, Voters: voters})
	}

	return out, nil
}

func computeResults(ctx context.Context, repo ports.PollResultRepository, poll *domain.Poll, now time.Time) (*domain.PollResults, error) {
	counts, err := repo.CountVotes(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	voters, err := repo.CountVoters(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	options, total, leading := aggregate(poll.Options, counts)

	return &domain.PollResults{
		Poll:            poll,
		Active:          poll.IsActive(now),
		TotalVotes:      total,
		TotalVoters:     voters,
		Options:         options,
		LeadingOptionID: leading,
		UserVotes:       []uuid.UUID{},
	}, nil
}

// aggregate turns per-option counts into results. options must be in
// creation order: the leader is the option with the most votes, and on a tie
// the one created first. There is no leader while nobody has voted.
// Percentages are left unrounded.
func aggregate(options []domain.Option, counts map[uuid.UUID]int64) ([]domain.OptionResult, int64, *uuid.UUID) {
	var total int64
	for _, opt := range options {
		total += counts[opt.ID]
	}

	results := make([]domain.OptionResult, 0, len(options))
	var leading *uuid.UUID
	var best int64

	for _, opt := range options {
		count := counts[opt.ID]
		percentage := 0.0
		if total > 0 {
			percentage = (float64(count) / float64(total)) * 100
		}

		results = append(results, domain.OptionResult{
			Option:     opt,
			VoteCount:  count,
			Percentage: percentage,
		})

		if count > best {
			id := opt.ID
			leading = &id
			best = count
		}
	}

	return results, total, leading
}
