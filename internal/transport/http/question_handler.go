package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

type QuestionHandler struct {
	questions *app.QuestionService
	log       *logger.Logger
}

func NewQuestionHandler(questions *app.QuestionService, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, log: log}
}

type createQuestionRequest struct {
	QuizID        string   `json:"quizId" binding:"required"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required"`
}

// ListForQuiz serves a quiz's questions. Correct answers are masked for
// callers who neither own the quiz nor administer the platform.
func (h *QuestionHandler) ListForQuiz(c *gin.Context) {
	questions, err := h.questions.ListForQuiz(c.Request.Context(), c.Param("quizId"), identityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	question, err := h.questions.Create(c.Request.Context(), app.CreateQuestionInput{
		Text:          req.Question,
		Options:       req.Options,
		CorrectAnswer: *req.CorrectAnswer,
	}, req.QuizID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.questions.Delete(c.Request.Context(), c.Param("questionId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
