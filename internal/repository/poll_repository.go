package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
)

type PollRepository struct {
	db *sqlx.DB
}

func NewPollRepository(db *sqlx.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create создаёт опрос вместе с вариантами в одной транзакции.
// Уникальный индекс polls(trailer_id) гарантирует один опрос на трейлер;
// конфликт возвращается как common.ErrAlreadyExists.
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll, optionTexts []string) error {
	return common.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO polls (trailer_id, creator_id, template_type, question, expires_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, total_votes, created_at
		`, poll.TrailerID, poll.CreatorID, poll.TemplateType, poll.Question, poll.ExpiresAt).
			Scan(&poll.ID, &poll.TotalVotes, &poll.CreatedAt)
		if err != nil {
			if common.IsUniqueViolationOn(err, "uq_polls_trailer") {
				return common.ErrAlreadyExists
			}
			return fmt.Errorf("create poll: %w", err)
		}

		poll.Options = make([]models.PollOption, 0, len(optionTexts))
		for i, text := range optionTexts {
			var opt models.PollOption
			err := tx.QueryRowContext(ctx, `
				INSERT INTO poll_options (poll_id, option_index, text)
				VALUES ($1, $2, $3)
				RETURNING id, poll_id, option_index, text, votes
			`, poll.ID, i, text).
				Scan(&opt.ID, &opt.PollID, &opt.OptionIndex, &opt.Text, &opt.Votes)
			if err != nil {
				return fmt.Errorf("create poll option %d: %w", i, err)
			}
			poll.Options = append(poll.Options, opt)
		}
		return nil
	})
}

// GetByID возвращает опрос с вариантами, отсортированными по индексу.
func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	poll, err := common.GetByID[models.Poll](ctx, r.db, "polls", id, common.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if err := r.loadOptions(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// GetByTrailerID возвращает опрос, привязанный к трейлеру.
func (r *PollRepository) GetByTrailerID(ctx context.Context, trailerID uuid.UUID) (*models.Poll, error) {
	poll, err := common.GetByField[models.Poll](ctx, r.db, "polls", "trailer_id", trailerID, common.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if err := r.loadOptions(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *PollRepository) loadOptions(ctx context.Context, poll *models.Poll) error {
	err := r.db.SelectContext(ctx, &poll.Options, `
		SELECT * FROM poll_options WHERE poll_id = $1 ORDER BY option_index
	`, poll.ID)
	if err != nil {
		return fmt.Errorf("load poll options: %w", err)
	}
	return nil
}

// InsertVote фиксирует голос и поднимает счётчики в одной транзакции.
// Порядок принципиален: сначала вставка в poll_votes под уникальным индексом
// (poll_id, user_id) - она единственный арбитр повторного голоса. Инкременты
// выполняются атомарными UPDATE votes = votes + 1, а не перезаписью строки,
// поэтому параллельные голоса за разные варианты не теряются.
func (r *PollRepository) InsertVote(ctx context.Context, pollID, userID uuid.UUID, optionIndex int) error {
	return common.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll_votes (poll_id, user_id, option_index)
			VALUES ($1, $2, $3)
		`, pollID, userID, optionIndex)
		if err != nil {
			if common.IsUniqueViolation(err) {
				return common.ErrAlreadyExists
			}
			return fmt.Errorf("insert vote: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE poll_options SET votes = votes + 1
			WHERE poll_id = $1 AND option_index = $2
		`, pollID, optionIndex)
		if err != nil {
			return fmt.Errorf("increment option votes: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return common.ErrInvalidInput
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE polls SET total_votes = total_votes + 1 WHERE id = $1
		`, pollID); err != nil {
			return fmt.Errorf("increment total votes: %w", err)
		}
		return nil
	})
}

// GetUserVote возвращает голос пользователя в опросе, если он есть.
func (r *PollRepository) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*models.PollVote, error) {
	var vote models.PollVote
	err := r.db.GetContext(ctx, &vote, `
		SELECT * FROM poll_votes WHERE poll_id = $1 AND user_id = $2
	`, pollID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user vote: %w", err)
	}
	return &vote, nil
}

// Reconcile пересчитывает счётчики вариантов и общий счётчик из записей
// голосов. Это процедура восстановления после частичного сбоя между вставкой
// голоса и инкрементом счётчика: источником истины считаются poll_votes.
func (r *PollRepository) Reconcile(ctx context.Context, pollID uuid.UUID) error {
	return common.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE poll_options po SET votes = (
				SELECT COUNT(*) FROM poll_votes v
				WHERE v.poll_id = po.poll_id AND v.option_index = po.option_index
			)
			WHERE po.poll_id = $1
		`, pollID); err != nil {
			return fmt.Errorf("reconcile option votes: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE polls SET total_votes = (
				SELECT COUNT(*) FROM poll_votes WHERE poll_id = $1
			)
			WHERE id = $1
		`, pollID)
		if err != nil {
			return fmt.Errorf("reconcile total votes: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}
