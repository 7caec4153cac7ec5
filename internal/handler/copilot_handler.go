package handler

import (
	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CopilotHandler exposes strategy generation
type CopilotHandler struct {
	copilotService *service.CopilotService
}

// NewCopilotHandler creates the handler
func NewCopilotHandler(copilotService *service.CopilotService) *CopilotHandler {
	return &CopilotHandler{
		copilotService: copilotService,
	}
}

// GenerateStrategy handles POST /api/v1/copilot/strategy
func (h *CopilotHandler) GenerateStrategy(c *gin.Context) {
	var req model.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	results := h.copilotService.GenerateStrategies(c.Request.Context(), &req)
	if req.Count > 1 {
		util.SendSuccess(c, results)
		return
	}
	util.SendSuccess(c, results[0])
}
