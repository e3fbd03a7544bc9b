package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

func TestAggregate(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	options := []domain.Option{{ID: a}, {ID: b}, {ID: c}}

	tests := []struct {
		name        string
		counts      map[uuid.UUID]int64
		wantTotal   int64
		wantPercent []float64
		wantLeader  *uuid.UUID
	}{
		{
			name:        "three to one",
			counts:      map[uuid.UUID]int64{a: 3, b: 1},
			wantTotal:   4,
			wantPercent: []float64{75, 25, 0},
			wantLeader:  &a,
		},
		{
			name:        "no votes",
			counts:      map[uuid.UUID]int64{},
			wantTotal:   0,
			wantPercent: []float64{0, 0, 0},
			wantLeader:  nil,
		},
		{
			name:        "tie goes to the earliest option",
			counts:      map[uuid.UUID]int64{b: 2, c: 2},
			wantTotal:   4,
			wantPercent: []float64{0, 50, 50},
			wantLeader:  &b,
		},
		{
			name:        "counts for unknown options are ignored",
			counts:      map[uuid.UUID]int64{c: 1, uuid.New(): 5},
			wantTotal:   1,
			wantPercent: []float64{0, 0, 100},
			wantLeader:  &c,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, total, leader := aggregate(options, tt.counts)
			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, results, len(options))
			for i, r := range results {
				assert.InDelta(t, tt.wantPercent[i], r.Percentage, 1e-9)
				assert.Equal(t, options[i].ID, r.Option.ID)
			}
			assert.Equal(t, tt.wantLeader, leader)
		})
	}
}

func TestResultService_Results(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	bob := env.member(t, "bob", false)
	carol := env.member(t, "carol", false)
	poll := env.createPoll(t, alice, time.Hour, "A", "B")

	empty, err := env.results.Results(ctx, bob, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalVotes)
	assert.Nil(t, empty.LeadingOptionID)
	for _, opt := range empty.Options {
		assert.Zero(t, opt.Percentage)
	}

	for _, p := range []domain.Principal{alice, bob, carol} {
		_, _, err := env.votes.Vote(ctx, p, ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID})
		require.NoError(t, err)
	}
	_, _, err = env.votes.Vote(ctx, bob, ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID})
	require.NoError(t, err)

	results, err := env.results.Results(ctx, bob, poll.ID)
	require.NoError(t, err)
	assert.True(t, results.Active)
	assert.Equal(t, int64(4), results.TotalVotes)
	assert.Equal(t, int64(3), results.TotalVoters)
	assert.InDelta(t, 75.0, results.Options[0].Percentage, 1e-9)
	assert.InDelta(t, 25.0, results.Options[1].Percentage, 1e-9)
	require.NotNil(t, results.LeadingOptionID)
	assert.Equal(t, poll.Options[0].ID, *results.LeadingOptionID)
	assert.Equal(t, []uuid.UUID{poll.Options[0].ID, poll.Options[1].ID}, results.UserVotes)

	env.clock.Advance(2 * time.Hour)
	closed, err := env.results.Results(ctx, carol, poll.ID)
	require.NoError(t, err)
	assert.False(t, closed.Active)
	assert.Equal(t, int64(4), closed.TotalVotes)

	_, err = env.results.Results(ctx, carol, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestResultService_Voters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	bob := env.member(t, "bob", false)
	admin := env.member(t, "root", true)
	poll := env.createPoll(t, alice, 0, "A", "B")

	_, _, err := env.votes.Vote(ctx, bob, ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID})
	require.NoError(t, err)

	_, err = env.results.Voters(ctx, bob, poll.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	for _, p := range []domain.Principal{alice, admin} {
		voters, err := env.results.Voters(ctx, p, poll.ID)
		require.NoError(t, err)
		require.Len(t, voters, 2)
		require.Len(t, voters[0].Voters, 1)
		assert.Equal(t, "bob", voters[0].Voters[0].Username)
		assert.NotNil(t, voters[1].Voters)
		assert.Empty(t, voters[1].Voters)
	}
}

func TestReportService_ReportAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)

	var polls []*domain.Poll
	for i := 0; i < 6; i++ {
		polls = append(polls, env.createPoll(t, alice, 0, "A", "B"))
		env.clock.Advance(time.Second)
	}
	_, _, err := env.votes.Vote(ctx, alice, ports.VoteInput{PollID: polls[2].ID, OptionID: polls[2].Options[1].ID})
	require.NoError(t, err)

	reports, err := env.reports.ReportAll(ctx, domain.ListAll)
	require.NoError(t, err)
	require.Len(t, reports, 6)

	// Newest first, matching the poll listing.
	assert.Equal(t, polls[5].ID, reports[0].Poll.ID)
	for _, r := range reports {
		if r.Poll.ID == polls[2].ID {
			assert.Equal(t, int64(1), r.TotalVotes)
			require.NotNil(t, r.LeadingOptionID)
			assert.Equal(t, polls[2].Options[1].ID, *r.LeadingOptionID)
			continue
		}
		assert.Equal(t, int64(0), r.TotalVotes)
	}
}
