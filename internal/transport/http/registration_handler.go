package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

type RegistrationHandler struct {
	registrations *app.RegistrationService
	log           *logger.Logger
}

func NewRegistrationHandler(registrations *app.RegistrationService, log *logger.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, log: log}
}

type createRegistrationRequest struct {
	Name       string `json:"name" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Event      string `json:"event" binding:"required"`
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	var req createRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	reg, err := h.registrations.Create(c.Request.Context(), identityFrom(c).Email, app.RegistrationInput{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		Email:      req.Email,
		Phone:      req.Phone,
		Event:      req.Event,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) List(c *gin.Context) {
	regs, err := h.registrations.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (h *RegistrationHandler) Delete(c *gin.Context) {
	if err := h.registrations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
