package handler

import (
	"strconv"

	"fleetwatch/backend/internal/model"
	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// FleetHandler exposes the fleet command and query surface
type FleetHandler struct {
	fleetService *service.FleetService
	queryService *service.FleetQueryService
}

// NewFleetHandler creates the handler
func NewFleetHandler(fleetService *service.FleetService, queryService *service.FleetQueryService) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
		queryService: queryService,
	}
}

// List handles GET /api/v1/fleet
func (h *FleetHandler) List(c *gin.Context) {
	bots := h.queryService.List(service.ListOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
		SortBy: c.Query("sort"),
	})
	util.SendSuccess(c, bots)
}

// Summary handles GET /api/v1/fleet/summary
func (h *FleetHandler) Summary(c *gin.Context) {
	util.SendSuccess(c, h.queryService.Summary())
}

// Deploy handles POST /api/v1/fleet
func (h *FleetHandler) Deploy(c *gin.Context) {
	var req model.DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot := h.fleetService.Deploy(&req)
	util.SendCreated(c, bot, "Bot deployed successfully")
}

// Get handles GET /api/v1/fleet/:id
func (h *FleetHandler) Get(c *gin.Context) {
	bot := h.fleetService.GetBot(c.Param("id"))
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// Toggle handles POST /api/v1/fleet/:id/toggle
func (h *FleetHandler) Toggle(c *gin.Context) {
	bot := h.fleetService.ToggleStatus(c.Param("id"))
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// Delete handles DELETE /api/v1/fleet/:id
func (h *FleetHandler) Delete(c *gin.Context) {
	h.fleetService.Delete(c.Param("id"))
	util.SendSuccess(c, gin.H{"message": "Bot deleted"})
}

// Rename handles PUT /api/v1/fleet/:id/name
func (h *FleetHandler) Rename(c *gin.Context) {
	var req model.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot := h.fleetService.Rename(c.Param("id"), req.Name)
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// UpdateAlertSettings handles PUT /api/v1/fleet/:id/alerts
func (h *FleetHandler) UpdateAlertSettings(c *gin.Context) {
	var req model.AlertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot := h.fleetService.UpdateAlertSettings(c.Param("id"), &req)
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// RecordFailure handles POST /api/v1/fleet/:id/failures
func (h *FleetHandler) RecordFailure(c *gin.Context) {
	var req model.FailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	bot := h.fleetService.RecordTradeFailure(c.Param("id"), req.Message)
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// AcknowledgeFailure handles DELETE /api/v1/fleet/:id/failures
func (h *FleetHandler) AcknowledgeFailure(c *gin.Context) {
	bot := h.fleetService.AcknowledgeTradeFailure(c.Param("id"))
	if bot == nil {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}
	util.SendSuccess(c, bot)
}

// History handles GET /api/v1/fleet/:id/history
func (h *FleetHandler) History(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}
	util.SendSuccess(c, h.fleetService.History(c.Param("id"), limit))
}
