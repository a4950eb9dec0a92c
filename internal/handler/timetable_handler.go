package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadplan/timetable-api/internal/dto"
	"github.com/acadplan/timetable-api/internal/engine"
	"github.com/acadplan/timetable-api/internal/models"
	"github.com/acadplan/timetable-api/internal/service"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
	"github.com/acadplan/timetable-api/pkg/response"
)

type generationRunner interface {
	GeneratePeriod(ctx context.Context, periodID string) (*engine.Result, error)
	GenerateCycle(ctx context.Context, periodID string, cycle int) (*engine.Result, error)
	GenerateGroup(ctx context.Context, groupID string) (*engine.Result, error)
	EnqueuePeriodRun(ctx context.Context, periodID string) (*models.GenerationRun, error)
	GetRun(ctx context.Context, runID string) (*models.GenerationRun, error)
}

type assignmentReader interface {
	ListByPeriod(ctx context.Context, periodID string, query dto.AssignmentListQuery) ([]models.AssignmentDetail, *models.Pagination, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.AssignmentDetail, error)
	ListByTeacher(ctx context.Context, periodID, teacherID string) ([]models.AssignmentDetail, error)
}

// TimetableHandler exposes generation and timetable listing endpoints.
type TimetableHandler struct {
	generation  generationRunner
	assignments assignmentReader
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(generation *service.GenerationService, assignments *service.AssignmentService) *TimetableHandler {
	return &TimetableHandler{generation: generation, assignments: assignments}
}

// GeneratePeriod godoc
// @Summary Generate the timetable for a whole period
// @Description Replaces every assignment of the period. Pass mode=async to run in the background and poll the returned run id.
// @Tags Timetable
// @Produce json
// @Param id path string true "Period ID"
// @Param mode query string false "sync (default) or async"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /timetable/periods/{id}/generate [post]
func (h *TimetableHandler) GeneratePeriod(c *gin.Context) {
	var query dto.GenerateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate query"))
		return
	}

	periodID := c.Param("id")
	if query.Async() {
		run, err := h.generation.EnqueuePeriodRun(c.Request.Context(), periodID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, dto.RunEnqueuedResponse{RunID: run.ID, Status: run.Status})
		return
	}

	result, err := h.generation.GeneratePeriod(c.Request.Context(), periodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGenerationResultResponse(result), nil)
}

// GenerateCycle godoc
// @Summary Generate the timetable for one semester cycle of a period
// @Tags Timetable
// @Produce json
// @Param id path string true "Period ID"
// @Param cycle path int true "Semester cycle"
// @Success 200 {object} response.Envelope
// @Router /timetable/periods/{id}/cycles/{cycle}/generate [post]
func (h *TimetableHandler) GenerateCycle(c *gin.Context) {
	cycle, err := strconv.Atoi(c.Param("cycle"))
	if err != nil || cycle < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "cycle must be a positive integer"))
		return
	}

	result, err := h.generation.GenerateCycle(c.Request.Context(), c.Param("id"), cycle)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGenerationResultResponse(result), nil)
}

// GenerateGroup godoc
// @Summary Generate the timetable for a single group
// @Tags Timetable
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/groups/{id}/generate [post]
func (h *TimetableHandler) GenerateGroup(c *gin.Context) {
	result, err := h.generation.GenerateGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGenerationResultResponse(result), nil)
}

// GetRun godoc
// @Summary Get the status of a background generation run
// @Tags Timetable
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/runs/{id} [get]
func (h *TimetableHandler) GetRun(c *gin.Context) {
	run, err := h.generation.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// ListPeriodAssignments godoc
// @Summary List a period's committed assignments
// @Tags Timetable
// @Produce json
// @Param id path string true "Period ID"
// @Param groupId query string false "Filter by group"
// @Param teacherId query string false "Filter by teacher"
// @Param dayOfWeek query int false "Filter by day of week (1-7)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable/periods/{id}/assignments [get]
func (h *TimetableHandler) ListPeriodAssignments(c *gin.Context) {
	var query dto.AssignmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment query"))
		return
	}

	details, pagination, err := h.assignments.ListByPeriod(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, pagination)
}

// ListGroupAssignments godoc
// @Summary List a group's weekly timetable
// @Tags Timetable
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/groups/{id}/assignments [get]
func (h *TimetableHandler) ListGroupAssignments(c *gin.Context) {
	details, err := h.assignments.ListByGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ListTeacherAssignments godoc
// @Summary List a teacher's weekly timetable within a period
// @Tags Timetable
// @Produce json
// @Param id path string true "Period ID"
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/periods/{id}/teachers/{teacherId}/assignments [get]
func (h *TimetableHandler) ListTeacherAssignments(c *gin.Context) {
	details, err := h.assignments.ListByTeacher(c.Request.Context(), c.Param("id"), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
