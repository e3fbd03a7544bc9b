package sqlite

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
	return &pollResultRepository{db: db}
}

func (r *pollResultRepository) CountVotes(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.option_id, COUNT(*)
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = ?
		GROUP BY v.option_id
	`, pollID)
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
	return counts, rows.Err()
}

func (r *pollResultRepository) CountVoters(ctx context.Context, pollID uuid.UUID) (int64, error) {
	var voters int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT v.user_id)
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = ?
	`, pollID).Scan(&voters)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters for poll %s: %w", pollID, err)
	}
	return voters, nil
}

func (r *pollResultRepository) Voters(ctx context.Context, pollID uuid.UUID) (map[uuid.UUID][]domain.Voter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.option_id, u.id, u.username, v.created_at
		FROM votes v
		JOIN options o ON o.id = v.option_id
		JOIN users u ON u.id = v.user_id
		WHERE o.poll_id = ?
		ORDER BY o.position, v.created_at, u.username
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voters for poll %s: %w", pollID, err)
	}
	defer rows.Close()

	voters := make(map[uuid.UUID][]domain.Voter)
	for rows.Next() {
		var (
			optionID uuid.UUID
			voter    domain.Voter
			votedAt  string
		)
		if err := rows.Scan(&optionID, &voter.UserID, &voter.Username, &votedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		if voter.VotedAt, err = parseTime(votedAt); err != nil {
			return nil, err
		}
		voters[optionID] = append(voters[optionID], voter)
	}
	return voters, rows.Err()
}
