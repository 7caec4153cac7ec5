package handler

import (
	"fmt"
	"net/http"

	"fleetwatch/backend/internal/service"
	"fleetwatch/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves history and market data downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates the handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportHistory handles GET /api/v1/fleet/:id/export
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	data, contentType, err := h.exportService.ExportHistory(c.Param("id"), format)
	if err != nil {
		util.SendError(c, util.NewAppError(http.StatusBadRequest, util.ErrCodeExport, err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=history-%s.%s", c.Param("id"), format))
	c.Data(http.StatusOK, contentType, data)
}

// ExportMarket handles GET /api/v1/market/export
func (h *ExportHandler) ExportMarket(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	data, contentType, err := h.exportService.ExportMarket(format)
	if err != nil {
		util.SendError(c, util.NewAppError(http.StatusBadRequest, util.ErrCodeExport, err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=market.%s", format))
	c.Data(http.StatusOK, contentType, data)
}
