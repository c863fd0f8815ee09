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

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create вставляет жалобу под уникальным индексом (reporter_id, content_id).
// Вставка идёт первой, без предварительной проверки существования: окно
// гонки между проверкой и вставкой закрывает сам индекс.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reports (reporter_id, content_type, content_id, reason, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, report.ReporterID, report.ContentType, report.ContentID, report.Reason, report.Details).
		Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return common.GetByID[models.Report](ctx, r.db, "reports", id, common.ErrNotFound)
}

// Review переводит жалобу из pending в терминальный статус одним guarded
// UPDATE: условие status = 'pending' в WHERE делает переход атомарным, два
// конкурирующих модератора не перезапишут решение друг друга.
// Возвращает false, если жалоба существует, но уже не pending.
func (r *ReportRepository) Review(ctx context.Context, id, reviewerID uuid.UUID, status string, notes *string) (*models.Report, bool, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `
		UPDATE reports
		SET status = $2, reviewed_by = $3, review_notes = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING *
	`, id, status, reviewerID, notes)
	if err == nil {
		return &report, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("review report: %w", err)
	}

	// UPDATE не нашёл строку: либо жалобы нет, либо она уже рассмотрена.
	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, false, getErr
	}
	return existing, false, nil
}

// List возвращает жалобы по статусу (или все), новые первыми.
func (r *ReportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &reports, `
			SELECT * FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &reports, `
			SELECT * FROM reports WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// CountByStatus возвращает количество жалоб в статусе (или всего).
func (r *ReportRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports`)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports WHERE status = $1`, status)
	}
	return count, err
}

func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports WHERE reporter_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, reporterID, limit, offset)
	return reports, err
}
