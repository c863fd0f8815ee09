package models

import (
	"time"

	"github.com/google/uuid"
)

// Report описывает жалобу пользователя на контент.
// Пара (reporter_id, content_id) уникальна: один пользователь жалуется
// на конкретный контент не более одного раза.
type Report struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReporterID  uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	ContentType string     `db:"content_type" json:"content_type"`
	ContentID   uuid.UUID  `db:"content_id" json:"content_id"`
	Reason      string     `db:"reason" json:"reason"`
	Details     *string    `db:"details" json:"details,omitempty"`
	Status      string     `db:"status" json:"status"`
	ReviewedBy  *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes *string    `db:"review_notes" json:"review_notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPending сообщает, ожидает ли жалоба модерации. Из терминальных статусов
// перехода обратно нет.
func (r *Report) IsPending() bool {
	return r.Status == ReportStatusPending
}
