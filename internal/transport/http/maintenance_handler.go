package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

type MaintenanceHandler struct {
	maintenance *app.MaintenanceService
	log         *logger.Logger
}

func NewMaintenanceHandler(maintenance *app.MaintenanceService, log *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, log: log}
}

type setMaintenanceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// Get is public; clients poll it to decide whether to show the maintenance
// banner. Read failures report the flag as off.
func (h *MaintenanceHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"maintenanceMode": h.maintenance.Enabled(c.Request.Context())})
}

func (h *MaintenanceHandler) Set(c *gin.Context) {
	var req setMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.maintenance.Set(c.Request.Context(), *req.Enabled, identityFrom(c).Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "maintenanceMode": *req.Enabled})
}
