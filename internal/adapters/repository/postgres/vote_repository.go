package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) (bool, error) {
	query := `
		INSERT INTO votes (id, user_id, option_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT votes_user_option_key DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.OptionID, vote.CreatedAt)
	if err != nil {
		return false, voteInsertError(err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 1 {
		return true, nil
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM votes WHERE user_id = $1 AND option_id = $2
	`, vote.UserID, vote.OptionID).Scan(&vote.ID, &vote.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to load existing vote: %w", err)
	}
	vote.CreatedAt = vote.CreatedAt.UTC()

	return false, nil
}

func (r *voteRepository) UserVotes(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT v.option_id
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = $1 AND v.user_id = $2
		ORDER BY o.position
	`
	rows, err := r.db.QueryContext(ctx, query, pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user votes: %w", err)
	}
	defer rows.Close()

	optionIDs := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user vote: %w", err)
		}
		optionIDs = append(optionIDs, id)
	}

	return optionIDs, rows.Err()
}
