package models

import (
	"time"

	"github.com/google/uuid"
)

// Trailer описывает опубликованный трейлер. Само видео живёт во внешнем
// хранилище, здесь только метаданные и ссылка на постер.
type Trailer struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CreatorID     uuid.UUID  `db:"creator_id" json:"creator_id"`
	Title         string     `db:"title" json:"title"`
	Description   *string    `db:"description" json:"description,omitempty"`
	VideoURL      string     `db:"video_url" json:"video_url"`
	PosterMediaID *uuid.UUID `db:"poster_media_id" json:"poster_media_id,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// MediaFile описывает загруженный файл постера.
type MediaFile struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	FilePath  string     `db:"file_path" json:"file_path"`
	FileType  string     `db:"file_type" json:"file_type"`
	FileSize  int64      `db:"file_size" json:"file_size"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
