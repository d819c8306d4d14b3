// Package handler provides HTTP handlers for export and reset.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/feature/dataops/transport/http/dto"
	"ipo_backend/internal/feature/dataops/usecase"
	"ipo_backend/internal/platform/http/response"
)

// DataUsecase is the subset of data operations served over HTTP.
type DataUsecase interface {
	Snapshot(ctx context.Context) (*usecase.Snapshot, error)
	Reset(ctx context.Context) (*usecase.ResetResult, error)
}

// DataHandler serves /api/export and /api/reset.
type DataHandler struct {
	uc DataUsecase
}

// NewDataHandler creates a DataHandler.
func NewDataHandler(uc DataUsecase) *DataHandler {
	return &DataHandler{uc: uc}
}

// ExportAll handles GET /api/export as a JSON attachment.
func (h *DataHandler) ExportAll(c *gin.Context) {
	s, err := h.uc.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ipo-data-export.json"`)
	c.JSON(http.StatusOK, dto.NewFullExport(s))
}

// ExportReport handles GET /api/export/:type.
func (h *DataHandler) ExportReport(c *gin.Context) {
	s, err := h.uc.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReport(c.Param("type"), s))
}

// Reset handles POST /api/reset.
func (h *DataHandler) Reset(c *gin.Context) {
	res, err := h.uc.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResetResponse{
		Success: true,
		Message: "All data has been reset successfully",
		Deleted: *res,
	})
}
