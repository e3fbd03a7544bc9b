package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

const selectPoll = `
	SELECT p.id, p.title, p.description, p.creator_id, u.username, p.created_at, p.expires_at
	FROM polls p
	JOIN users u ON u.id = p.creator_id
`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, title, description, creator_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, nullString(poll.Description), poll.CreatorID, poll.CreatedAt, poll.ExpiresAt,
	)
	if err != nil {
		if code, _ := errorCode(err); code == foreignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, err := scanPoll(r.db.QueryRowContext(ctx, selectPoll+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := fetchOptions(ctx, r.db, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return poll, nil
}

func (r *pollRepository) List(ctx context.Context, filter domain.ListFilter, now time.Time) ([]*domain.Poll, error) {
	query := selectPoll
	args := []any{}

	switch filter {
	case domain.ListActive:
		query += ` WHERE p.expires_at IS NULL OR p.expires_at > $1`
		args = append(args, now)
	case domain.ListExpired:
		query += ` WHERE p.expires_at <= $1`
		args = append(args, now)
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	byID := make(map[uuid.UUID]*domain.Poll)
	ids := []uuid.UUID{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
		byID[poll.ID] = poll
		ids = append(ids, poll.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	if len(ids) == 0 {
		return polls, nil
	}

	optRows, err := r.db.QueryContext(ctx, selectOption+`
		WHERE poll_id = ANY($1)
		ORDER BY poll_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		opt, err := scanOption(optRows)
		if err != nil {
			return nil, err
		}
		if poll, ok := byID[opt.PollID]; ok {
			poll.Options = append(poll.Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return polls, nil
}

func (r *pollRepository) AddOptions(ctx context.Context, pollID uuid.UUID, options []domain.Option) ([]domain.Option, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPoll(ctx, tx, pollID); err != nil {
		return nil, err
	}

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM options WHERE poll_id = $1`, pollID,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to read option positions: %w", err)
	}

	added := make([]domain.Option, len(options))
	for i, opt := range options {
		opt.PollID = pollID
		opt.Position = last + i + 1
		added[i] = opt
	}

	if err := insertOptions(ctx, tx, added); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

func (r *pollRepository) RemoveOption(ctx context.Context, pollID, optionID uuid.UUID, minOptions int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPoll(ctx, tx, pollID); err != nil {
		return err
	}

	var count int
	var found bool
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(BOOL_OR(id = $2), FALSE)
		FROM options
		WHERE poll_id = $1
	`, pollID, optionID).Scan(&count, &found)
	if err != nil {
		return fmt.Errorf("failed to count options: %w", err)
	}
	if !found {
		return domain.ErrOptionNotFound
	}
	if count-1 < minOptions {
		return domain.ErrMinOptions
	}

	// Votes go with the option through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM options WHERE id = $1 AND poll_id = $2`, optionID, pollID); err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrPollNotFound
	}

	return nil
}

// lockPoll serializes option changes on a poll for the rest of tx.
func lockPoll(ctx context.Context, tx *sql.Tx, pollID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM polls WHERE id = $1 FOR UPDATE`, pollID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to lock poll: %w", err)
	}
	return nil
}

const selectOption = `
	SELECT id, poll_id, kind, text, date_time, position, created_at
	FROM options
`

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.Option) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO options (id, poll_id, kind, text, date_time, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		_, err = stmt.ExecContext(ctx,
			opt.ID, opt.PollID, string(opt.Kind), nullString(opt.Text), opt.DateTime, opt.Position, opt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return nil
}

func fetchOptions(ctx context.Context, q querier, pollID uuid.UUID) ([]domain.Option, error) {
	rows, err := q.QueryContext(ctx, selectOption+` WHERE poll_id = $1 ORDER BY position`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	options := []domain.Option{}
	for rows.Next() {
		opt, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	return options, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPoll(s scanner) (*domain.Poll, error) {
	var (
		poll        domain.Poll
		description sql.NullString
		expiresAt   sql.NullTime
	)
	err := s.Scan(
		&poll.ID, &poll.Title, &description, &poll.CreatorID, &poll.CreatorUsername, &poll.CreatedAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	poll.Description = description.String
	poll.CreatedAt = poll.CreatedAt.UTC()
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		poll.ExpiresAt = &t
	}
	poll.Options = []domain.Option{}

	return &poll, nil
}

func scanOption(s scanner) (domain.Option, error) {
	var (
		opt      domain.Option
		kind     string
		text     sql.NullString
		dateTime sql.NullTime
	)
	if err := s.Scan(&opt.ID, &opt.PollID, &kind, &text, &dateTime, &opt.Position, &opt.CreatedAt); err != nil {
		return domain.Option{}, fmt.Errorf("failed to scan option: %w", err)
	}

	opt.Kind = domain.OptionKind(kind)
	opt.Text = text.String
	opt.CreatedAt = opt.CreatedAt.UTC()
	if dateTime.Valid {
		t := dateTime.Time.UTC()
		opt.DateTime = &t
	}

	return opt, nil
}
