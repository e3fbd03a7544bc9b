package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/policy"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type pollService struct {
	repo     ports.PollRepository
	voteRepo ports.VoteRepository
	clock    domain.Clock
}

func NewPollService(repo ports.PollRepository, voteRepo ports.VoteRepository, clock domain.Clock) ports.PollService {
	return &pollService{
		repo:     repo,
		voteRepo: voteRepo,
		clock:    clock,
	}
}

func (s *pollService) Create(ctx context.Context, principal domain.Principal, input ports.CreatePollInput) (*domain.Poll, error) {
	if !policy.Can(principal, nil, policy.CreatePoll) {
		return nil, domain.ErrForbidden
	}

	now := s.clock.Now()
	verr := &domain.ValidationError{}

	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		verr.Add("title", "title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", "title cannot be longer than 200 characters")
	}

	if input.ExpiresAt != nil && !input.ExpiresAt.After(now) {
		verr.Add("expires_at", "expiration must be in the future")
	}

	options, optErr := parseOptions(input.Options, now)
	if optErr != nil {
		for field, msg := range optErr.Fields {
			verr.Add(field, msg)
		}
	} else if len(options) < minPollOptions {
		verr.Add("options", "at least two options are required")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	pollID := uuid.New()
	poll := &domain.Poll{
		ID:              pollID,
		Title:           title,
		Description:     strings.TrimSpace(input.Description),
		CreatorID:       principal.UserID,
		CreatorUsername: principal.Username,
		CreatedAt:       now,
	}
	if input.ExpiresAt != nil {
		expiresAt := input.ExpiresAt.UTC()
		poll.ExpiresAt = &expiresAt
	}

	for _, opt := range options {
		opt.PollID = pollID
		poll.Options = append(poll.Options, opt)
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.PollView, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(principal, poll, policy.ViewPoll) {
		return nil, domain.ErrForbidden
	}

	userVotes, err := s.voteRepo.UserVotes(ctx, poll.ID, principal.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.PollView{
		Poll:      poll,
		Active:    poll.IsActive(s.clock.Now()),
		UserVotes: userVotes,
	}, nil
}

func (s *pollService) ListPolls(ctx context.Context, principal domain.Principal, input ports.ListPollsInput) ([]*domain.Poll, error) {
	if !policy.Can(principal, nil, policy.ViewPoll) {
		return nil, domain.ErrForbidden
	}

	filter := input.Filter
	if filter == "" {
		filter = domain.ListActive
	}
	if !filter.Valid() {
		return nil, domain.NewValidationError("status", "status must be one of active, expired, all")
	}

	return s.repo.List(ctx, filter, s.clock.Now())
}

func (s *pollService) AddOptions(ctx context.Context, principal domain.Principal, pollID uuid.UUID, raw []ports.RawOption) ([]domain.Option, error) {
	poll, err := s.mutablePoll(ctx, principal, pollID, policy.AddOption)
	if err != nil {
		return nil, err
	}

	options, verr := parseOptions(raw, s.clock.Now())
	if verr != nil {
		return nil, verr
	}
	if len(options) == 0 {
		return nil, domain.NewValidationError("options", "at least one option is required")
	}

	for i := range options {
		options[i].PollID = poll.ID
	}

	return s.repo.AddOptions(ctx, poll.ID, options)
}

func (s *pollService) RemoveOption(ctx context.Context, principal domain.Principal, pollID, optionID uuid.UUID) error {
	poll, err := s.mutablePoll(ctx, principal, pollID, policy.RemoveOption)
	if err != nil {
		return err
	}

	if _, ok := poll.Option(optionID); !ok {
		return domain.ErrOptionNotFound
	}

	return s.repo.RemoveOption(ctx, poll.ID, optionID, minPollOptions)
}

func (s *pollService) Delete(ctx context.Context, principal domain.Principal, pollID uuid.UUID) error {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !policy.Can(principal, poll, policy.DeletePoll) {
		return domain.ErrForbidden
	}

	return s.repo.Delete(ctx, poll.ID)
}

// mutablePoll loads a poll whose options are about to change and checks that
// the principal may do so while the poll is still active.
func (s *pollService) mutablePoll(ctx context.Context, principal domain.Principal, pollID uuid.UUID, action policy.Action) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(principal, poll, action) {
		return nil, domain.ErrForbidden
	}
	if !poll.IsActive(s.clock.Now()) {
		return nil, domain.ErrPollExpired
	}
	return poll, nil
}
