package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinopitch/trailers-backend/internal/http/handlers/common"
	"github.com/kinopitch/trailers-backend/internal/service"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

// ReportHandler переводит HTTP запросы в операции движка жалоб.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CreateReport POST /reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ContentType string  `json:"content_type" binding:"required"`
		ContentID   string  `json:"content_id" binding:"required,uuid"`
		Reason      string  `json:"reason" binding:"required"`
		Details     *string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contentID, _ := uuid.Parse(req.ContentID)
	report, err := h.reports.SubmitReport(c.Request.Context(), userID, contentID, validation.SubmitReportInput{
		ContentType: req.ContentType,
		Reason:      req.Reason,
		Details:     req.Details,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ReviewReport PATCH /reports/:id (только для админов)
func (h *ReportHandler) ReviewReport(c *gin.Context) {
	reviewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status      string  `json:"status" binding:"required"`
		ReviewNotes *string `json:"review_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.reports.ReviewReport(c.Request.Context(), reportID, reviewerID, validation.ReviewReportInput{
		Status:      req.Status,
		ReviewNotes: req.ReviewNotes,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports GET /reports?status=&page=&limit= (только для админов)
func (h *ReportHandler) ListReports(c *gin.Context) {
	page, limit := common.GetPageParams(c)
	status := c.DefaultQuery("status", "all")

	pageData, err := h.reports.ListReports(c.Request.Context(), status, page, limit)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageData)
}

// GetReport GET /reports/:id (только для админов)
func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.reports.GetReport(c.Request.Context(), reportID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListMyReports GET /reports/my
func (h *ReportHandler) ListMyReports(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	page, limit := common.GetPageParams(c)
	reports, err := h.reports.ListMyReports(c.Request.Context(), userID, page, limit)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
