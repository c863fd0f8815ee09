package models

// PollTemplateType константы шаблонов опросов
const (
	PollTemplateSequel = "sequel"
	PollTemplateCast   = "cast"
	PollTemplateRating = "rating"
	PollTemplateCustom = "custom"
)

// ReportStatus константы статусов жалоб
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
	ReportStatusActioned  = "actioned"
)

// ReportReason константы причин жалоб
const (
	ReportReasonInappropriate = "inappropriate"
	ReportReasonSpam          = "spam"
	ReportReasonCopyright     = "copyright"
	ReportReasonHarassment    = "harassment"
	ReportReasonOther         = "other"
)

// ReportContentType типы контента, на который можно пожаловаться
const (
	ReportContentTrailer = "trailer"
	ReportContentComment = "comment"
)

// ValidPollTemplateTypes список валидных шаблонов опросов
var ValidPollTemplateTypes = map[string]struct{}{
	PollTemplateSequel: {},
	PollTemplateCast:   {},
	PollTemplateRating: {},
	PollTemplateCustom: {},
}

// ValidReportReasons список валидных причин жалоб
var ValidReportReasons = map[string]struct{}{
	ReportReasonInappropriate: {},
	ReportReasonSpam:          {},
	ReportReasonCopyright:     {},
	ReportReasonHarassment:    {},
	ReportReasonOther:         {},
}

// ValidReportContentTypes список валидных типов контента
var ValidReportContentTypes = map[string]struct{}{
	ReportContentTrailer: {},
	ReportContentComment: {},
}

// TerminalReportStatuses статусы, в которые модератор переводит жалобу.
// Все три терминальные: повторная модерация не предусмотрена.
var TerminalReportStatuses = map[string]struct{}{
	ReportStatusReviewed:  {},
	ReportStatusDismissed: {},
	ReportStatusActioned:  {},
}
