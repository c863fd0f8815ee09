package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPollHandler_CreatePoll_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PollHandler{polls: nil}
	r.POST("/polls", handler.CreatePoll)

	req, _ := http.NewRequest("POST", "/polls", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollHandler_Vote_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PollHandler{polls: nil}
	r.POST("/polls/:id/vote", handler.Vote)

	pollID := uuid.New()
	req, _ := http.NewRequest("POST", "/polls/"+pollID.String()+"/vote", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollHandler_Vote_InvalidPollID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &PollHandler{polls: nil}
	r.POST("/polls/:id/vote", handler.Vote)

	req, _ := http.NewRequest("POST", "/polls/invalid-uuid/vote", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPollHandler_Vote_MissingOptionIndex(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &PollHandler{polls: nil}
	r.POST("/polls/:id/vote", handler.Vote)

	// option_index обязателен, пустое тело отбивается на binding
	pollID := uuid.New()
	req, _ := http.NewRequest("POST", "/polls/"+pollID.String()+"/vote", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPollHandler_GetPoll_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PollHandler{polls: nil}
	r.GET("/polls/:id", handler.GetPoll)

	req, _ := http.NewRequest("GET", "/polls/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPollHandler_GetResults_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PollHandler{polls: nil}
	r.GET("/polls/:id/results", handler.GetResults)

	req, _ := http.NewRequest("GET", "/polls/invalid-uuid/results", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPollHandler_GetMyVote_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PollHandler{polls: nil}
	r.GET("/polls/:id/my-vote", handler.GetMyVote)

	pollID := uuid.New()
	req, _ := http.NewRequest("GET", "/polls/"+pollID.String()+"/my-vote", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
