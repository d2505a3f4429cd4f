package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizapi/services"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
	statsService      *services.StatsService
	hub               *services.Hub
}

func NewSubmissionHandler(submissionService *services.SubmissionService, statsService *services.StatsService, hub *services.Hub) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		statsService:      statsService,
		hub:               hub,
	}
}

type submitAnswersRequest struct {
	Answers json.RawMessage `json:"answers"`
}

func (h *SubmissionHandler) SubmitAnswers(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid quiz ID")
		return
	}

	// Decoded leniently: a missing or non-array answers value becomes a nil
	// batch, so the quiz existence check always runs first and an unknown
	// quiz id is a 404 no matter what the body looks like.
	var req submitAnswersRequest
	_ = c.ShouldBindJSON(&req)
	var answers []services.AnswerInput
	if len(req.Answers) > 0 {
		if err := json.Unmarshal(req.Answers, &answers); err != nil {
			answers = nil
		}
	}

	result, err := h.submissionService.SubmitAnswers(uint(quizID), answers, h.hub)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

func (h *SubmissionHandler) GetQuizSubmissions(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid quiz ID")
		return
	}

	submissions, err := h.submissionService.GetQuizSubmissions(uint(quizID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(submissions), "data": submissions})
}

func (h *SubmissionHandler) GetQuizStats(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid quiz ID")
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context(), uint(quizID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
