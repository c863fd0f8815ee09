package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/pkg/apperror"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

// Пагинация списка жалоб: дефолт и серверный потолок.
const (
	DefaultReportPageSize = 20
	MaxReportPageSize     = 100
)

// ReportStore описывает зависимости ReportService от слоя хранилища.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	Review(ctx context.Context, id, reviewerID uuid.UUID, status string, notes *string) (*models.Report, bool, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Report, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID, limit, offset int) ([]models.Report, error)
}

// ReportService - движок жалоб и модерации.
// Жалоба проходит путь pending -> {reviewed, dismissed, actioned}; все три
// статуса терминальные, обратного перехода нет.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// ReportPage - страница списка жалоб с общим количеством.
type ReportPage struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// SubmitReport принимает жалобу. Один пользователь может пожаловаться на
// конкретный контент только один раз: повтор отсекается уникальным индексом
// при вставке, предварительной проверки существования нет.
func (s *ReportService) SubmitReport(ctx context.Context, reporterID, contentID uuid.UUID, in validation.SubmitReportInput) (*models.Report, error) {
	if res := validation.ValidateSubmitReport(in); !res.OK() {
		return nil, apperror.Wrap(&res, apperror.ErrCodeValidation, res.Error())
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ContentType: in.ContentType,
		ContentID:   contentID,
		Reason:      in.Reason,
		Details:     in.Details,
	}

	if err := s.store.Create(ctx, report); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.ErrDuplicateReport
		}
		return nil, err
	}

	logger.WithComponent("report").WithFields(logrus.Fields{
		"report_id":    report.ID,
		"content_type": report.ContentType,
		"reason":       report.Reason,
	}).Info("жалоба принята")

	return report, nil
}

// ReviewReport переводит жалобу в терминальный статус и проставляет
// модератора. Рассмотреть можно только pending жалобу: решение по уже
// рассмотренной не переписывается, чтобы история модерации была стабильной.
func (s *ReportService) ReviewReport(ctx context.Context, reportID, reviewerID uuid.UUID, in validation.ReviewReportInput) (*models.Report, error) {
	if res := validation.ValidateReviewReport(in); !res.OK() {
		return nil, apperror.Wrap(&res, apperror.ErrCodeValidation, res.Error())
	}

	report, ok, err := s.store.Review(ctx, reportID, reviewerID, in.Status, in.ReviewNotes)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidTransition
	}

	logger.WithComponent("report").WithFields(logrus.Fields{
		"report_id":   report.ID,
		"status":      report.Status,
		"reviewed_by": reviewerID,
	}).Info("жалоба рассмотрена")

	return report, nil
}

// GetReport возвращает жалобу по ID.
func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.store.GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrReportNotFound
	}
	return report, err
}

// ListReports возвращает страницу жалоб, новые первыми. status - один из
// статусов или "all". Размер страницы ограничен сверху, чтобы не отдавать
// неограниченные выборки.
func (s *ReportService) ListReports(ctx context.Context, status string, page, limit int) (*ReportPage, error) {
	filter := ""
	if status != "" && status != "all" {
		if _, ok := models.TerminalReportStatuses[status]; !ok && status != models.ReportStatusPending {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус фильтра")
		}
		filter = status
	}

	page, limit = clampPage(page, limit)

	reports, err := s.store.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ReportPage{Reports: reports, Total: total, Page: page, Limit: limit}, nil
}

// ListMyReports возвращает жалобы, поданные пользователем.
func (s *ReportService) ListMyReports(ctx context.Context, reporterID uuid.UUID, page, limit int) ([]models.Report, error) {
	page, limit = clampPage(page, limit)
	return s.store.ListByReporter(ctx, reporterID, limit, (page-1)*limit)
}

// clampPage нормализует страницу и размер страницы.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultReportPageSize
	}
	if limit > MaxReportPageSize {
		limit = MaxReportPageSize
	}
	return page, limit
}
