package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

type QuizHandler struct {
	catalog *app.CatalogService
	log     *logger.Logger
}

func NewQuizHandler(catalog *app.CatalogService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{catalog: catalog, log: log}
}

type createQuizRequest struct {
	Title           string                  `json:"title" binding:"required"`
	Description     string                  `json:"description"`
	AccessCode      string                  `json:"accessCode" binding:"omitempty,accesscode"`
	TimeLimit       int                     `json:"timeLimit" binding:"min=0"`
	PerQuestionTime int                     `json:"perQuestionTime" binding:"min=0"`
	AllowSkip       bool                    `json:"allowSkip"`
	Questions       []createQuestionPayload `json:"questions" binding:"omitempty,dive"`
}

type createQuestionPayload struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required"`
}

// List serves active quizzes, newest first.
func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// ListMine serves the caller's own quizzes, access codes included.
func (h *QuizHandler) ListMine(c *gin.Context) {
	identity := identityFrom(c)
	quizzes, err := h.catalog.ListOwned(c.Request.Context(), identity.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) Get(c *gin.Context) {
	quiz, err := h.catalog.Get(c.Request.Context(), c.Param("quizId"), identityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Create(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	input := app.CreateQuizInput{
		Title:           req.Title,
		Description:     req.Description,
		AccessCode:      req.AccessCode,
		TimeLimit:       req.TimeLimit,
		PerQuestionTime: req.PerQuestionTime,
		AllowSkip:       req.AllowSkip,
	}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, app.CreateQuestionInput{
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: *q.CorrectAnswer,
		})
	}

	quiz, err := h.catalog.Create(c.Request.Context(), identityFrom(c).Email, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("quizId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "quiz and all related data deleted"})
}
