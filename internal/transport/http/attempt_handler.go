package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/domain"
	"quizhost/internal/pkg/logger"
)

type AttemptHandler struct {
	attempts *app.AttemptService
	log      *logger.Logger
}

func NewAttemptHandler(attempts *app.AttemptService, log *logger.Logger) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, log: log}
}

type answerPayload struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedAnswer *int   `json:"selectedAnswer" binding:"required"`
}

type recordAttemptRequest struct {
	QuizID         string          `json:"quizId" binding:"required"`
	QuizTitle      string          `json:"quizTitle"`
	UserName       string          `json:"userName" binding:"required"`
	UserEmail      string          `json:"userEmail" binding:"required"`
	RollNumber     string          `json:"rollNumber" binding:"required"`
	Answers        []answerPayload `json:"answers" binding:"required,dive"`
	Score          int             `json:"score" binding:"min=0"`
	TotalQuestions int             `json:"totalQuestions" binding:"min=0"`
}

// Record accepts a finished attempt from a client that scored locally.
// Participants are self-reported and unauthenticated.
func (h *AttemptHandler) Record(c *gin.Context) {
	var req recordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	answers := make([]domain.AnswerRecord, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.AnswerRecord{QuestionID: a.QuestionID, SelectedAnswer: *a.SelectedAnswer})
	}

	attempt, err := h.attempts.Record(c.Request.Context(), domain.Attempt{
		QuizID:         req.QuizID,
		QuizTitle:      req.QuizTitle,
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		RollNumber:     req.RollNumber,
		Answers:        answers,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// List serves attempts visible to the caller; admins see all, quiz owners see
// their own quizzes' attempts. ?quizId= narrows the result.
func (h *AttemptHandler) List(c *gin.Context) {
	attempts, err := h.attempts.List(c.Request.Context(), identityFrom(c), c.Query("quizId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}
