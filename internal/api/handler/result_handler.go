package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ResultHandler serves aggregated and detailed results.
type ResultHandler struct {
	resultSvc service.ResultService
	exportSvc service.ExportService
}

// NewResultHandler creates a ResultHandler.
func NewResultHandler(resultSvc service.ResultService, exportSvc service.ExportService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc, exportSvc: exportSvc}
}

// Realtime per-position tallies (public)
// GET /api/results/realtime
func (h *ResultHandler) Realtime(c *gin.Context) {
	results, err := h.resultSvc.Realtime(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, results)
}

// Detailed every vote row, oldest first (admin)
// GET /api/results/detailed
func (h *ResultHandler) Detailed(c *gin.Context) {
	rows, err := h.resultSvc.Detailed(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, rows)
}

// Export results workbook (admin)
// GET /api/results/export
func (h *ResultHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportResults(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
