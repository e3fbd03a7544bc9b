package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

type PollResultRepository interface {
	// CountVotes groups the poll's current votes by option. Options without
	// votes are absent from the map.
	CountVotes(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error)
	CountVoters(ctx context.Context, pollID uuid.UUID) (int64, error)
	Voters(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID][]domain.Voter, error)
}

type ResultService interface {
	Results(ctx context.Context, principal domain.Principal, pollID uuid.UUID) (*domain.PollResults, error)
	Voters(ctx context.Context, principal domain.Principal, pollID uuid.UUID) ([]domain.OptionVoters, error)
}

type ReportService interface {
	ReportAll(ctx context.Context, filter domain.ListFilter) ([]*domain.PollResults, error)
}
