package feedback

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

type FeedbackRepo interface {
	Create(ctx context.Context, dto *FeedbackDTO) (int64, error)
	List(ctx context.Context) ([]*Feedback, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}

type feedbackRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewFeedbackRepo(db *sql.DB, logger *zap.Logger) FeedbackRepo {
	return &feedbackRepo{
		db:     db,
		logger: logger,
	}
}

const (
	insertFeedbackQuery = `
						INSERT INTO feedback (name, email, type, message)
						VALUES ($1, $2, $3, $4)
						RETURNING id
						`
	listFeedbackQuery = `
						SELECT id, name, email, type, message, created_at
						FROM feedback
						ORDER BY created_at DESC
						`
	countFeedbackQuery = `
						SELECT COUNT(*) FROM feedback
						`
	deleteFeedbackQuery = `
						DELETE FROM feedback WHERE id = $1
						`
)

func (f *feedbackRepo) Create(ctx context.Context, dto *FeedbackDTO) (int64, error) {
	var id int64
	err := f.db.QueryRowContext(ctx,
		insertFeedbackQuery,
		blankToNil(dto.Name),
		blankToNil(dto.Email),
		dto.Type,
		strings.TrimSpace(dto.Message),
	).Scan(&id)
	if err != nil {
		f.logger.Error("failed to create feedback", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (f *feedbackRepo) List(ctx context.Context) ([]*Feedback, error) {
	rows, err := f.db.QueryContext(ctx, listFeedbackQuery)
	if err != nil {
		f.logger.Error("failed to list feedback", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*Feedback, 0)
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.Name, &fb.Email, &fb.Type, &fb.Message, &fb.CreatedAt); err != nil {
			f.logger.Error("failed to scan feedback", zap.Error(err))
			return nil, err
		}
		out = append(out, &fb)
	}
	if err := rows.Err(); err != nil {
		f.logger.Error("failed to iterate feedback", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (f *feedbackRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := f.db.QueryRowContext(ctx, countFeedbackQuery).Scan(&n); err != nil {
		f.logger.Error("failed to count feedback", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (f *feedbackRepo) Delete(ctx context.Context, id int64) error {
	res, err := f.db.ExecContext(ctx, deleteFeedbackQuery, id)
	if err != nil {
		f.logger.Error("failed to delete feedback", zap.Int64("id", id), zap.Error(err))
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
