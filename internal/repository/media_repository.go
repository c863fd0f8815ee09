package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
)

// MediaRepository работает с таблицей media_files (постеры трейлеров).
type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет запись о загруженном файле.
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaFile) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO media_files (user_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, media.UserID, media.FilePath, media.FileType, media.FileSize).
		Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}
	return nil
}

// GetByID возвращает запись о файле.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	return common.GetByID[models.MediaFile](ctx, r.db, "media_files", id, common.ErrNotFound)
}
