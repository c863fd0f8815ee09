package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
)

type TrailerRepository struct {
	db *sqlx.DB
}

func NewTrailerRepository(db *sqlx.DB) *TrailerRepository {
	return &TrailerRepository{db: db}
}

func (r *TrailerRepository) Create(ctx context.Context, trailer *models.Trailer) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO trailers (creator_id, title, description, video_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, trailer.CreatorID, trailer.Title, trailer.Description, trailer.VideoURL).
		Scan(&trailer.ID, &trailer.CreatedAt)
}

func (r *TrailerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trailer, error) {
	return common.GetByID[models.Trailer](ctx, r.db, "trailers", id, common.ErrNotFound)
}

func (r *TrailerRepository) List(ctx context.Context, limit, offset int) ([]models.Trailer, error) {
	var trailers []models.Trailer
	err := r.db.SelectContext(ctx, &trailers, `
		SELECT * FROM trailers ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	return trailers, err
}

// SetPoster привязывает загруженный постер к трейлеру.
func (r *TrailerRepository) SetPoster(ctx context.Context, trailerID, mediaID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trailers SET poster_media_id = $2 WHERE id = $1
	`, trailerID, mediaID)
	if err != nil {
		return fmt.Errorf("set trailer poster: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
