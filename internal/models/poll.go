package models

import (
	"time"

	"github.com/google/uuid"
)

// Poll описывает опрос, привязанный к трейлеру (один опрос на трейлер).
type Poll struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TrailerID    uuid.UUID  `db:"trailer_id" json:"trailer_id"`
	CreatorID    uuid.UUID  `db:"creator_id" json:"creator_id"`
	TemplateType string     `db:"template_type" json:"template_type"`
	Question     string     `db:"question" json:"question"`
	TotalVotes   int64      `db:"total_votes" json:"total_votes"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`

	// Options заполняется репозиторием отдельным запросом, в таблице polls колонки нет.
	Options []PollOption `db:"-" json:"options"`
}

// IsExpired проверяет, закрыт ли опрос по времени.
// Состояние вычисляется лениво при каждом обращении, фонового процесса нет.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// PollOption описывает вариант ответа. Текст после создания не меняется,
// мутирует только счётчик голосов.
type PollOption struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PollID      uuid.UUID `db:"poll_id" json:"poll_id"`
	OptionIndex int       `db:"option_index" json:"option_index"`
	Text        string    `db:"text" json:"text"`
	Votes       int64     `db:"votes" json:"votes"`
}

// PollVote фиксирует голос пользователя. Уникальность пары (poll_id, user_id)
// обеспечивается индексом в базе, это единственный арбитр повторных голосов.
type PollVote struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PollID      uuid.UUID `db:"poll_id" json:"poll_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	OptionIndex int       `db:"option_index" json:"option_index"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OptionResult — агрегат по одному варианту для выдачи результатов.
type OptionResult struct {
	OptionIndex int     `json:"option_index"`
	Text        string  `json:"text"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// PollResults — итоговая сводка опроса. Проценты округляются до двух знаков
// независимо друг от друга, поэтому сумма может отличаться от 100 на величину
// ошибки округления.
type PollResults struct {
	PollID     uuid.UUID      `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Expired    bool           `json:"expired"`
	Options    []OptionResult `json:"options"`
}
