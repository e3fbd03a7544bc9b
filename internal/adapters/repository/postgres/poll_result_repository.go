package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{
		db: db,
	}
}

func (r *pollResultRepository) CountVotes(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT v.option_id, COUNT(*)
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = $1
		GROUP BY v.option_id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes for poll %s: %w", pollID, err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var optionID uuid.UUID
		var count int64
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}

	return counts, nil
}

func (r *pollResultRepository) CountVoters(ctx context.Context, pollID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT v.user_id)
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = $1
	`
	var voters int64
	if err := r.db.QueryRowContext(ctx, query, pollID).Scan(&voters); err != nil {
		return 0, fmt.Errorf("failed to count voters for poll %s: %w", pollID, err)
	}
	return voters, nil
}

func (r *pollResultRepository) Voters(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID][]domain.Voter, error) {
	query := `
		SELECT v.option_id, u.id, u.username, v.created_at
		FROM votes v
		JOIN options o ON o.id = v.option_id
		JOIN users u ON u.id = v.user_id
		WHERE o.poll_id = $1
		ORDER BY o.position, v.created_at, u.username
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voters for poll %s: %w", pollID, err)
	}
	defer rows.Close()

	voters := make(map[uuid.UUID][]domain.Voter)
	for rows.Next() {
		var optionID uuid.UUID
		var voter domain.Voter
		if err := rows.Scan(&optionID, &voter.UserID, &voter.Username, &voter.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voter.VotedAt = voter.VotedAt.UTC()
		voters[optionID] = append(voters[optionID], voter)
	}

	return voters, rows.Err()
}
