package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadplan/timetable-api/internal/dto"
	"github.com/acadplan/timetable-api/internal/models"
	"github.com/acadplan/timetable-api/internal/repository"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
)

type assignmentLister interface {
	ListDetailedByPeriod(ctx context.Context, periodID string, filter repository.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	ListDetailedByGroup(ctx context.Context, groupID string) ([]models.AssignmentDetail, error)
	ListDetailedByTeacher(ctx context.Context, periodID, teacherID string) ([]models.AssignmentDetail, error)
}

// AssignmentService serves committed timetable listings.
type AssignmentService struct {
	assignments assignmentLister
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs the assignment listing service.
func NewAssignmentService(assignments assignmentLister, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, validator: validate, logger: logger}
}

// ListByPeriod returns a period's assignments with pagination metadata.
func (s *AssignmentService) ListByPeriod(ctx context.Context, periodID string, query dto.AssignmentListQuery) ([]models.AssignmentDetail, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment query")
	}

	filter := repository.AssignmentFilter{
		GroupID:   query.GroupID,
		TeacherID: query.TeacherID,
		DayOfWeek: query.DayOfWeek,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	details, total, err := s.assignments.ListDetailedByPeriod(ctx, periodID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	pagination := models.NewPagination(page, size, total)
	return details, &pagination, nil
}

// ListByGroup returns a group's weekly timetable.
func (s *AssignmentService) ListByGroup(ctx context.Context, groupID string) ([]models.AssignmentDetail, error) {
	details, err := s.assignments.ListDetailedByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group timetable")
	}
	return details, nil
}

// ListByTeacher returns a teacher's weekly timetable within a period.
func (s *AssignmentService) ListByTeacher(ctx context.Context, periodID, teacherID string) ([]models.AssignmentDetail, error) {
	details, err := s.assignments.ListDetailedByTeacher(ctx, periodID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher timetable")
	}
	return details, nil
}
