package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinopitch/trailers-backend/internal/http/handlers/common"
	"github.com/kinopitch/trailers-backend/internal/service"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

// PollHandler переводит HTTP запросы в операции движка опросов.
// Бизнес-логики здесь нет, только разбор запроса и перевод ошибок в статусы.
type PollHandler struct {
	polls *service.PollService
}

func NewPollHandler(polls *service.PollService) *PollHandler {
	return &PollHandler{polls: polls}
}

// CreatePoll POST /polls
func (h *PollHandler) CreatePoll(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		TrailerID    string     `json:"trailer_id" binding:"required,uuid"`
		TemplateType string     `json:"template_type" binding:"required"`
		Question     string     `json:"question" binding:"required"`
		Options      []string   `json:"options" binding:"required"`
		ExpiresAt    *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	trailerID, _ := uuid.Parse(req.TrailerID)
	poll, err := h.polls.CreatePoll(c.Request.Context(), trailerID, userID, validation.CreatePollInput{
		TemplateType: req.TemplateType,
		Question:     req.Question,
		Options:      req.Options,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

// GetPoll GET /polls/:id
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	poll, err := h.polls.GetPoll(c.Request.Context(), pollID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// Vote POST /polls/:id/vote
func (h *PollHandler) Vote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	pollID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		OptionIndex *int `json:"option_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	results, err := h.polls.CastVote(c.Request.Context(), pollID, userID, *req.OptionIndex)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResults GET /polls/:id/results
func (h *PollHandler) GetResults(c *gin.Context) {
	pollID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	results, err := h.polls.GetResults(c.Request.Context(), pollID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetMyVote GET /polls/:id/my-vote
func (h *PollHandler) GetMyVote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	pollID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	idx, err := h.polls.GetUserVote(c.Request.Context(), pollID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"option_index": idx})
}

// Reconcile POST /polls/:id/reconcile (только для админов)
func (h *PollHandler) Reconcile(c *gin.Context) {
	pollID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	results, err := h.polls.Reconcile(c.Request.Context(), pollID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
