package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kinopitch/trailers-backend/internal/models"
)

// Константы валидации
const (
	MinPollQuestionLength = 5
	MaxPollQuestionLength = 200
	MinPollOptions        = 2
	MaxPollOptions        = 6
	MinOptionTextLength   = 1
	MaxOptionTextLength   = 100
	MaxReportDetailsLength = 500
	MaxReviewNotesLength   = 1000
	MinTrailerTitleLength  = 1
	MaxTrailerTitleLength  = 200
	MaxTrailerDescriptionLength = 2000
)

// FieldError описывает ошибку конкретного поля входных данных.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result - результат валидации входной формы. Либо OK, либо список ошибок
// по полям, пригодный для отдачи клиенту как есть.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// OK сообщает, прошла ли форма валидацию.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Error объединяет ошибки полей в одно сообщение.
func (r *Result) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// CreatePollInput - форма создания опроса.
type CreatePollInput struct {
	TemplateType string
	Question     string
	Options      []string
	ExpiresAt    *time.Time
}

// ValidateCreatePoll проверяет форму создания опроса.
func ValidateCreatePoll(in CreatePollInput, now time.Time) Result {
	var res Result

	if _, ok := models.ValidPollTemplateTypes[in.TemplateType]; !ok {
		res.add("template_type", "недопустимый тип шаблона")
	}

	question := strings.TrimSpace(in.Question)
	if err := checkLength(question, MinPollQuestionLength, MaxPollQuestionLength); err != nil {
		res.add("question", err.Error())
	}

	if len(in.Options) < MinPollOptions || len(in.Options) > MaxPollOptions {
		res.add("options", fmt.Sprintf("количество вариантов должно быть от %d до %d", MinPollOptions, MaxPollOptions))
	}
	for i, opt := range in.Options {
		if err := checkLength(strings.TrimSpace(opt), MinOptionTextLength, MaxOptionTextLength); err != nil {
			res.add(fmt.Sprintf("options[%d]", i), err.Error())
		}
	}

	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		res.add("expires_at", "срок завершения должен быть в будущем")
	}

	return res
}

// VoteInput - форма голосования.
type VoteInput struct {
	OptionIndex int
}

// ValidateVote проверяет форму голосования. Верхняя граница индекса
// проверяется движком опросов по фактическому списку вариантов.
func ValidateVote(in VoteInput) Result {
	var res Result
	if in.OptionIndex < 0 {
		res.add("option_index", "индекс варианта не может быть отрицательным")
	}
	return res
}

// SubmitReportInput - форма подачи жалобы.
type SubmitReportInput struct {
	ContentType string
	Reason      string
	Details     *string
}

// ValidateSubmitReport проверяет форму подачи жалобы.
func ValidateSubmitReport(in SubmitReportInput) Result {
	var res Result

	if _, ok := models.ValidReportContentTypes[in.ContentType]; !ok {
		res.add("content_type", "недопустимый тип контента")
	}
	if _, ok := models.ValidReportReasons[in.Reason]; !ok {
		res.add("reason", "недопустимая причина жалобы")
	}
	if in.Details != nil {
		if utf8.RuneCountInString(*in.Details) > MaxReportDetailsLength {
			res.add("details", fmt.Sprintf("детали не могут быть длиннее %d символов", MaxReportDetailsLength))
		}
	}

	return res
}

// ReviewReportInput - форма решения модератора по жалобе.
type ReviewReportInput struct {
	Status      string
	ReviewNotes *string
}

// ValidateReviewReport проверяет форму решения модератора.
func ValidateReviewReport(in ReviewReportInput) Result {
	var res Result

	if _, ok := models.TerminalReportStatuses[in.Status]; !ok {
		res.add("status", "статус должен быть reviewed, dismissed или actioned")
	}
	if in.ReviewNotes != nil {
		if utf8.RuneCountInString(*in.ReviewNotes) > MaxReviewNotesLength {
			res.add("review_notes", fmt.Sprintf("заметки не могут быть длиннее %d символов", MaxReviewNotesLength))
		}
	}

	return res
}

// CreateTrailerInput - форма публикации трейлера.
type CreateTrailerInput struct {
	Title       string
	Description *string
	VideoURL    string
}

// ValidateCreateTrailer проверяет форму публикации трейлера.
func ValidateCreateTrailer(in CreateTrailerInput) Result {
	var res Result

	if err := checkLength(strings.TrimSpace(in.Title), MinTrailerTitleLength, MaxTrailerTitleLength); err != nil {
		res.add("title", err.Error())
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > MaxTrailerDescriptionLength {
		res.add("description", fmt.Sprintf("описание не может быть длиннее %d символов", MaxTrailerDescriptionLength))
	}
	if strings.TrimSpace(in.VideoURL) == "" {
		res.add("video_url", "ссылка на видео обязательна")
	}

	return res
}

// checkLength проверяет длину строки в рунах.
func checkLength(value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min {
		return fmt.Errorf("должно быть не менее %d символов", min)
	}
	if length > max {
		return fmt.Errorf("должно быть не более %d символов", max)
	}
	return nil
}
