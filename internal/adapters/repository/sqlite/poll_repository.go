package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

const selectPoll = `
	SELECT p.id, p.title, p.description, p.creator_id, u.username, p.created_at, p.expires_at
	FROM polls p
	JOIN users u ON u.id = p.creator_id
`

const selectOption = `
	SELECT id, poll_id, kind, text, date_time, position, created_at
	FROM options
`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, title, description, creator_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, poll.ID, poll.Title, nullString(poll.Description), poll.CreatorID, formatTime(poll.CreatedAt), formatNullTime(poll.ExpiresAt))
	if err != nil {
		if constraintCode(err) == sqliteForeignKey {
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
	poll, err := scanPoll(r.db.QueryRowContext(ctx, selectPoll+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectOption+` WHERE poll_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		opt, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return poll, nil
}

func (r *pollRepository) List(ctx context.Context, filter domain.ListFilter, now time.Time) ([]*domain.Poll, error) {
	query := selectPoll
	var args []any

	switch filter {
	case domain.ListActive:
		query += ` WHERE p.expires_at IS NULL OR p.expires_at > ?`
		args = append(args, formatTime(now))
	case domain.ListExpired:
		query += ` WHERE p.expires_at <= ?`
		args = append(args, formatTime(now))
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	polls, err := r.listPolls(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(polls) == 0 {
		return polls, nil
	}

	// The single connection is free again once the poll rows are closed.
	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	for _, p := range polls {
		byID[p.ID] = p
	}

	rows, err := r.db.QueryContext(ctx, selectOption+` ORDER BY poll_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		opt, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		if p, ok := byID[opt.PollID]; ok {
			p.Options = append(p.Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return polls, nil
}

func (r *pollRepository) listPolls(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) AddOptions(ctx context.Context, pollID uuid.UUID, options []domain.Option) ([]domain.Option, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := pollExists(ctx, tx, pollID); err != nil {
		return nil, err
	}

	var last int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM options WHERE poll_id = ?`, pollID).Scan(&last)
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

	if err := pollExists(ctx, tx, pollID); err != nil {
		return err
	}

	var count, found int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(id = ?), 0)
		FROM options
		WHERE poll_id = ?
	`, optionID, pollID).Scan(&count, &found)
	if err != nil {
		return fmt.Errorf("failed to count options: %w", err)
	}
	if found == 0 {
		return domain.ErrOptionNotFound
	}
	if count-1 < minOptions {
		return domain.ErrMinOptions
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE option_id = ?`, optionID); err != nil {
		return fmt.Errorf("failed to delete option votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM options WHERE id = ? AND poll_id = ?`, optionID, pollID); err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := pollExists(ctx, tx, id); err != nil {
		return err
	}

	steps := []struct {
		query string
		what  string
	}{
		{`DELETE FROM votes WHERE option_id IN (SELECT id FROM options WHERE poll_id = ?)`, "votes"},
		{`DELETE FROM options WHERE poll_id = ?`, "options"},
		{`DELETE FROM polls WHERE id = ?`, "poll"},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.what, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func pollExists(ctx context.Context, tx *sql.Tx, pollID uuid.UUID) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM polls WHERE id = ?`, pollID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get poll: %w", err)
	}
	return nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.Option) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO options (id, poll_id, kind, text, date_time, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		_, err := stmt.ExecContext(ctx,
			opt.ID, opt.PollID, string(opt.Kind), nullString(opt.Text),
			formatNullTime(opt.DateTime), opt.Position, formatTime(opt.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPoll(s scanner) (*domain.Poll, error) {
	var (
		poll        domain.Poll
		description sql.NullString
		createdAt   string
		expiresAt   sql.NullString
	)
	if err := s.Scan(&poll.ID, &poll.Title, &description, &poll.CreatorID, &poll.CreatorUsername, &createdAt, &expiresAt); err != nil {
		return nil, err
	}

	var err error
	if poll.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if poll.ExpiresAt, err = parseNullTime(expiresAt); err != nil {
		return nil, err
	}
	poll.Description = description.String
	poll.Options = []domain.Option{}

	return &poll, nil
}

func scanOption(s scanner) (domain.Option, error) {
	var (
		opt       domain.Option
		kind      string
		text      sql.NullString
		dateTime  sql.NullString
		createdAt string
	)
	if err := s.Scan(&opt.ID, &opt.PollID, &kind, &text, &dateTime, &opt.Position, &createdAt); err != nil {
		return domain.Option{}, fmt.Errorf("failed to scan option: %w", err)
	}

	var err error
	if opt.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Option{}, err
	}
	if opt.DateTime, err = parseNullTime(dateTime); err != nil {
		return domain.Option{}, err
	}
	opt.Kind = domain.OptionKind(kind)
	opt.Text = text.String

	return opt, nil
}
