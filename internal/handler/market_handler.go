package handler

import (
	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MarketHandler exposes market data snapshots
type MarketHandler struct {
	marketService *service.MarketDataService
}

// NewMarketHandler creates the handler
func NewMarketHandler(marketService *service.MarketDataService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Snapshot handles GET /api/v1/market
func (h *MarketHandler) Snapshot(c *gin.Context) {
	util.SendSuccess(c, h.marketService.Snapshot())
}
