package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

func TestVoteService_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	poll := env.createPoll(t, alice, time.Hour, "yes", "no")
	input := ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID}

	first, created, err := env.votes.Vote(ctx, alice, input)
	require.NoError(t, err)
	assert.True(t, created)

	env.clock.Advance(time.Minute)

	second, created, err := env.votes.Vote(ctx, alice, input)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

	assert.Equal(t, 1, env.count(t, `SELECT COUNT(*) FROM votes`))
}

func TestVoteService_ConcurrentIdenticalVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	poll := env.createPoll(t, alice, 0, "yes", "no")
	input := ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.votes.Vote(ctx, alice, input)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, env.count(t, `SELECT COUNT(*) FROM votes WHERE option_id = ?`, input.OptionID))
}

func TestVoteService_MultiSelect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	poll := env.createPoll(t, alice, 0, "friday", "saturday", "sunday")

	for _, opt := range poll.Options[:2] {
		_, created, err := env.votes.Vote(ctx, alice, ports.VoteInput{PollID: poll.ID, OptionID: opt.ID})
		require.NoError(t, err)
		assert.True(t, created)
	}

	view, err := env.polls.GetPoll(ctx, alice, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{poll.Options[0].ID, poll.Options[1].ID}, view.UserVotes)
}

func TestVoteService_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.member(t, "alice", false)
	poll := env.createPoll(t, alice, 0, "a", "b")
	other := env.createPoll(t, alice, 0, "x", "y")

	_, _, err := env.votes.Vote(ctx, alice, ports.VoteInput{PollID: poll.ID, OptionID: other.Options[0].ID})
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)

	_, _, err = env.votes.Vote(ctx, alice, ports.VoteInput{PollID: uuid.New(), OptionID: poll.Options[0].ID})
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	_, _, err = env.votes.Vote(ctx, domain.Principal{}, ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM votes`))
}
