package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type reportService struct {
	pollRepo    ports.PollRepository
	resultRepo  ports.PollResultRepository
	clock       domain.Clock
	concurrency int
}

// NewReportService builds results for many polls at once. concurrency bounds
// the number of polls aggregated in parallel and should not exceed the
// database pool size.
func NewReportService(pollRepo ports.PollRepository, resultRepo ports.PollResultRepository, clock domain.Clock, concurrency int) ports.ReportService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &reportService{
		pollRepo:    pollRepo,
		resultRepo:  resultRepo,
		clock:       clock,
		concurrency: concurrency,
	}
}

func (s *reportService) ReportAll(ctx context.Context, filter domain.ListFilter) ([]*domain.PollResults, error) {
	now := s.clock.Now()

	polls, err := s.pollRepo.List(ctx, filter, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch polls: %w", err)
	}

	reports := make([]*domain.PollResults, len(polls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, poll := range polls {
		i, poll := i, poll
		g.Go(func() error {
			results, err := computeResults(gctx, s.resultRepo, poll, now)
			if err != nil {
				return fmt.Errorf("failed to compute results for poll %s: %w", poll.ID, err)
			}
			reports[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
