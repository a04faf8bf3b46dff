package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

// TakeHandler exposes the quiz-taking state machine over REST. Sessions are
// anonymous; possession of the session id is the only credential, mirroring
// the access-code trust model.
type TakeHandler struct {
	take *app.TakeService
	log  *logger.Logger
}

func NewTakeHandler(take *app.TakeService, log *logger.Logger) *TakeHandler {
	return &TakeHandler{take: take, log: log}
}

type verifyCodeRequest struct {
	AccessCode string `json:"accessCode" binding:"required"`
}

type beginRequest struct {
	UserName   string `json:"userName" binding:"required"`
	UserEmail  string `json:"userEmail" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
}

type selectAnswerRequest struct {
	QuestionID  string `json:"questionId" binding:"required"`
	OptionIndex *int   `json:"optionIndex" binding:"required"`
}

type navigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next prev"`
}

func (h *TakeHandler) Start(c *gin.Context) {
	view, err := h.take.Start(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *TakeHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.take.VerifyCode(c.Request.Context(), c.Param("sessionId"), req.AccessCode)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TakeHandler) Begin(c *gin.Context) {
	var req beginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.take.Begin(c.Request.Context(), c.Param("sessionId"), req.UserName, req.UserEmail, req.RollNumber)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TakeHandler) SelectAnswer(c *gin.Context) {
	var req selectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.take.SelectAnswer(c.Request.Context(), c.Param("sessionId"), req.QuestionID, *req.OptionIndex)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TakeHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	delta := 1
	if req.Direction == "prev" {
		delta = -1
	}
	view, err := h.take.Navigate(c.Request.Context(), c.Param("sessionId"), delta)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TakeHandler) Snapshot(c *gin.Context) {
	view, err := h.take.Snapshot(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TakeHandler) Submit(c *gin.Context) {
	attempt, err := h.take.Submit(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}
