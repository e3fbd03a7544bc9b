package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (id, user_id, option_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, option_id) DO NOTHING
	`, vote.ID, vote.UserID, vote.OptionID, formatTime(vote.CreatedAt))
	if err != nil {
		if constraintCode(err) == sqliteForeignKey {
			return false, r.missingReference(ctx, vote.OptionID)
		}
		return false, fmt.Errorf("failed to save vote: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 1 {
		return true, nil
	}

	var createdAt string
	err = r.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM votes WHERE user_id = ? AND option_id = ?
	`, vote.UserID, vote.OptionID).Scan(&vote.ID, &createdAt)
	if err != nil {
		return false, fmt.Errorf("failed to load existing vote: %w", err)
	}
	if vote.CreatedAt, err = parseTime(createdAt); err != nil {
		return false, err
	}

	return false, nil
}

// missingReference tells which side of a failed vote foreign key is absent.
// SQLite does not name the violated constraint.
func (r *voteRepository) missingReference(ctx context.Context, optionID uuid.UUID) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM options WHERE id = ?`, optionID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrOptionNotFound
	case err != nil:
		return fmt.Errorf("failed to check option: %w", err)
	default:
		return domain.ErrUserNotFound
	}
}

func (r *voteRepository) UserVotes(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.option_id
		FROM votes v
		JOIN options o ON o.id = v.option_id
		WHERE o.poll_id = ? AND v.user_id = ?
		ORDER BY o.position
	`, pollID, userID)
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
