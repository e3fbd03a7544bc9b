package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

type PollRepository interface {
	// Save stores the poll and all of its options in one transaction.
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context, filter domain.ListFilter, now time.Time) ([]*domain.Poll, error)
	// AddOptions appends options after the poll's existing ones and returns
	// them with their assigned positions.
	AddOptions(ctx context.Context, pollID uuid.UUID, options []domain.Option) ([]domain.Option, error)
	// RemoveOption deletes the option and its votes unless fewer than
	// minOptions would remain.
	RemoveOption(ctx context.Context, pollID, optionID uuid.UUID, minOptions int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RawOption is an option as submitted by a member, before parsing. An empty
// Kind lets the service infer it from Value.
type RawOption struct {
	Kind  domain.OptionKind
	Value string
}

type CreatePollInput struct {
	Title       string
	Description string
	ExpiresAt   *time.Time
	Options     []RawOption
}

type ListPollsInput struct {
	Filter domain.ListFilter
}

type PollService interface {
	Create(ctx context.Context, principal domain.Principal, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.PollView, error)
	ListPolls(ctx context.Context, principal domain.Principal, input ListPollsInput) ([]*domain.Poll, error)
	AddOptions(ctx context.Context, principal domain.Principal, pollID uuid.UUID, options []RawOption) ([]domain.Option, error)
	RemoveOption(ctx context.Context, principal domain.Principal, pollID, optionID uuid.UUID) error
	Delete(ctx context.Context, principal domain.Principal, pollID uuid.UUID) error
}
