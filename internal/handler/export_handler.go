package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadplan/timetable-api/internal/dto"
	"github.com/acadplan/timetable-api/internal/service"
	"github.com/acadplan/timetable-api/pkg/response"
)

type timetableExporter interface {
	ExportPeriod(ctx context.Context, periodID string, query dto.ExportQuery) (*service.ExportFile, error)
	ExportGroup(ctx context.Context, groupID string, query dto.ExportQuery) (*service.ExportFile, error)
}

// ExportHandler streams rendered timetable files.
type ExportHandler struct {
	exports timetableExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportPeriod godoc
// @Summary Export a period's timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Period ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /timetable/periods/{id}/export [get]
func (h *ExportHandler) ExportPeriod(c *gin.Context) {
	query := dto.ExportQuery{Format: c.Query("format")}
	file, err := h.exports.ExportPeriod(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// ExportGroup godoc
// @Summary Export a group's weekly timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Group ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /timetable/groups/{id}/export [get]
func (h *ExportHandler) ExportGroup(c *gin.Context) {
	query := dto.ExportQuery{Format: c.Query("format")}
	file, err := h.exports.ExportGroup(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
