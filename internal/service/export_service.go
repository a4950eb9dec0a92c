package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadplan/timetable-api/internal/dto"
	"github.com/acadplan/timetable-api/internal/models"
	"github.com/acadplan/timetable-api/internal/repository"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
	"github.com/acadplan/timetable-api/pkg/export"
)

var dayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

var exportHeaders = []string{"Day", "Start", "End", "Group", "Subject", "Teacher", "Room"}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type exportAssignmentSource interface {
	ListDetailedByPeriod(ctx context.Context, periodID string, filter repository.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	ListDetailedByGroup(ctx context.Context, groupID string) ([]models.AssignmentDetail, error)
}

// ExportService renders committed timetables as CSV or PDF files.
type ExportService struct {
	assignments exportAssignmentSource
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
	enabled     bool
}

// NewExportService constructs the export service.
func NewExportService(assignments exportAssignmentSource, validate *validator.Validate, logger *zap.Logger, enabled bool) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		assignments: assignments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
		enabled:     enabled,
	}
}

// ExportPeriod renders a whole period's timetable.
func (s *ExportService) ExportPeriod(ctx context.Context, periodID string, query dto.ExportQuery) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "timetable export is disabled")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}

	var details []models.AssignmentDetail
	for page := 1; ; page++ {
		batch, total, err := s.assignments.ListDetailedByPeriod(ctx, periodID, repository.AssignmentFilter{Page: page, PageSize: 200})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period timetable")
		}
		details = append(details, batch...)
		if len(batch) == 0 || len(details) >= total {
			break
		}
	}

	name := fmt.Sprintf("timetable-period-%s", periodID)
	return s.render(details, name, query.Format)
}

// ExportGroup renders a single group's weekly timetable.
func (s *ExportService) ExportGroup(ctx context.Context, groupID string, query dto.ExportQuery) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "timetable export is disabled")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}

	details, err := s.assignments.ListDetailedByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group timetable")
	}

	name := fmt.Sprintf("timetable-group-%s", groupID)
	return s.render(details, name, query.Format)
}

func (s *ExportService) render(details []models.AssignmentDetail, name, format string) (*ExportFile, error) {
	dataset := export.Dataset{Headers: exportHeaders}
	for _, detail := range details {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     dayNames[detail.DayOfWeek],
			"Start":   detail.StartTime,
			"End":     detail.EndTime,
			"Group":   detail.GroupCode,
			"Subject": detail.SubjectName,
			"Teacher": detail.TeacherName,
			"Room":    detail.RoomName,
		})
	}

	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv", Content: content}, nil
	}
}
