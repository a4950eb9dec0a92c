package dto

import (
	"github.com/acadplan/timetable-api/internal/engine"
	"github.com/acadplan/timetable-api/internal/models"
)

// GenerateQuery selects how a generation request runs.
type GenerateQuery struct {
	Mode string `form:"mode" validate:"omitempty,oneof=sync async"`
}

// Async reports whether the caller asked for a background run.
func (q GenerateQuery) Async() bool { return q.Mode == "async" }

// GenerationResultResponse is the synchronous generation payload.
type GenerationResultResponse struct {
	Scope      models.GenerationScope `json:"scope"`
	Committed  int                    `json:"committed"`
	Unresolved []engine.Unresolved    `json:"unresolved"`
	Stats      map[string]int         `json:"stats"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// NewGenerationResultResponse flattens an engine result for API consumption.
func NewGenerationResultResponse(result *engine.Result) GenerationResultResponse {
	return GenerationResultResponse{
		Scope:      result.Scope,
		Committed:  len(result.Committed),
		Unresolved: result.Unresolved,
		Stats:      result.Stats,
		Warnings:   result.Warnings,
	}
}

// RunEnqueuedResponse acknowledges an accepted background run.
type RunEnqueuedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// AssignmentListQuery filters detailed assignment listings.
type AssignmentListQuery struct {
	GroupID   string `form:"groupId" validate:"omitempty"`
	TeacherID string `form:"teacherId" validate:"omitempty"`
	DayOfWeek int    `form:"dayOfWeek" validate:"omitempty,min=1,max=7"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

// ExportQuery selects the export rendering.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
