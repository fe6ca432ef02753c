package lesson

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

type ProgressRepo interface {
	GetProgress(ctx context.Context, personID int64) ([]*Progress, error)
	MarkComplete(ctx context.Context, personID int64, lessonID string) error
	CompletedCount(ctx context.Context, personID int64) (int, error)
}

type progressRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProgressRepo(db *sql.DB, logger *zap.Logger) ProgressRepo {
	return &progressRepo{
		db:     db,
		logger: logger,
	}
}

const (
	selectProgressQuery = `
						SELECT id, person_id, lesson_id, completed, completed_at
						FROM lesson_progress
						WHERE person_id = $1
						ORDER BY lesson_id
						`
	markCompleteQuery = `
						INSERT INTO lesson_progress (person_id, lesson_id, completed, completed_at)
						VALUES ($1, $2, true, now())
						ON CONFLICT (person_id, lesson_id)
						DO UPDATE SET completed = true, completed_at = now()
						`
	completedCountQuery = `
						SELECT COUNT(*)
						FROM lesson_progress
						WHERE person_id = $1 AND completed = true
						`
)

func (p *progressRepo) GetProgress(ctx context.Context, personID int64) ([]*Progress, error) {
	rows, err := p.db.QueryContext(ctx, selectProgressQuery, personID)
	if err != nil {
		p.logger.Error("failed to get lesson progress", zap.Int64("person_id", personID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	progress := make([]*Progress, 0)
	for rows.Next() {
		var pr Progress
		if err := rows.Scan(&pr.ID, &pr.PersonID, &pr.LessonID, &pr.Completed, &pr.CompletedAt); err != nil {
			p.logger.Error("failed to scan lesson progress", zap.Error(err))
			return nil, err
		}
		progress = append(progress, &pr)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("failed to iterate lesson progress", zap.Error(err))
		return nil, err
	}
	return progress, nil
}

// MarkComplete is idempotent; completing a lesson twice refreshes its
// completion time.
func (p *progressRepo) MarkComplete(ctx context.Context, personID int64, lessonID string) error {
	if _, err := p.db.ExecContext(ctx, markCompleteQuery, personID, lessonID); err != nil {
		p.logger.Error("failed to mark lesson complete",
			zap.Int64("person_id", personID),
			zap.String("lesson_id", lessonID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *progressRepo) CompletedCount(ctx context.Context, personID int64) (int, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, completedCountQuery, personID).Scan(&count); err != nil {
		p.logger.Error("failed to count completed lessons", zap.Int64("person_id", personID), zap.Error(err))
		return 0, err
	}
	return count, nil
}
