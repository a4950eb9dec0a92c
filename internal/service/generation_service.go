package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadplan/timetable-api/internal/engine"
	"github.com/acadplan/timetable-api/internal/models"
	"github.com/acadplan/timetable-api/pkg/config"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
	"github.com/acadplan/timetable-api/pkg/jobs"
)

type timetableGenerator interface {
	GenerateForPeriod(ctx context.Context, periodID string) (*engine.Result, error)
	GenerateForCycle(ctx context.Context, periodID string, cycle int) (*engine.Result, error)
	GenerateForGroup(ctx context.Context, groupID string) (*engine.Result, error)
}

type generationJob struct {
	RunID string
	Scope models.GenerationScope
}

// GenerationService fronts the engine: it serialises concurrent runs per
// scope, records run state for async requests and emits metrics.
type GenerationService struct {
	generator timetableGenerator
	runs      RunStore
	metrics   *MetricsService
	logger    *zap.Logger
	enabled   bool

	queue *jobs.Queue
	locks sync.Map
}

// NewGenerationService wires the generation service and its worker queue.
func NewGenerationService(generator timetableGenerator, runs RunStore, metrics *MetricsService, logger *zap.Logger, cfg config.GeneratorConfig) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &GenerationService{
		generator: generator,
		runs:      runs,
		metrics:   metrics,
		logger:    logger,
		enabled:   cfg.Enabled,
	}
	svc.queue = jobs.NewQueue("timetable-generation", svc.processJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return svc
}

// Start launches the background workers.
func (s *GenerationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the background workers.
func (s *GenerationService) Stop() {
	s.queue.Stop()
}

// GeneratePeriod runs generation for a whole period synchronously.
func (s *GenerationService) GeneratePeriod(ctx context.Context, periodID string) (*engine.Result, error) {
	return s.execute(ctx, models.PeriodScope(periodID))
}

// GenerateCycle runs generation for one semester cycle synchronously.
func (s *GenerationService) GenerateCycle(ctx context.Context, periodID string, cycle int) (*engine.Result, error) {
	return s.execute(ctx, models.CycleScope(periodID, cycle))
}

// GenerateGroup runs generation for a single group synchronously.
func (s *GenerationService) GenerateGroup(ctx context.Context, groupID string) (*engine.Result, error) {
	return s.execute(ctx, models.GroupScope(groupID))
}

// EnqueuePeriodRun schedules a whole-period generation in the background and
// returns the pending run record.
func (s *GenerationService) EnqueuePeriodRun(ctx context.Context, periodID string) (*models.GenerationRun, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "timetable generation is disabled")
	}

	run := &models.GenerationRun{
		ID:        uuid.NewString(),
		Scope:     models.PeriodScope(periodID),
		Status:    models.RunStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record run")
	}

	job := jobs.Job{ID: run.ID, Type: "generate", Payload: generationJob{RunID: run.ID, Scope: run.Scope}}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue run")
	}

	s.logger.Sugar().Infow("generation run enqueued", "run_id", run.ID, "scope", run.Scope.Key())
	return run, nil
}

// GetRun loads a run record by id.
func (s *GenerationService) GetRun(ctx context.Context, runID string) (*models.GenerationRun, error) {
	run, err := s.runs.Find(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run")
	}
	return run, nil
}

// execute serialises runs that share a lock key, dispatches to the engine and
// observes the outcome.
func (s *GenerationService) execute(ctx context.Context, scope models.GenerationScope) (*engine.Result, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "timetable generation is disabled")
	}

	unlock := s.lock(scope)
	defer unlock()

	started := time.Now()
	result, err := s.dispatch(ctx, scope)
	elapsed := time.Since(started)

	kind := scopeKind(scope)
	if err != nil {
		s.metrics.ObserveGenerationRun(kind, "error", elapsed, nil)
		s.logger.Sugar().Warnw("generation run failed", "scope", scope.Key(), "error", err)
		return nil, err
	}

	s.metrics.ObserveGenerationRun(kind, "ok", elapsed, result)
	s.logger.Sugar().Infow("generation run finished",
		"scope", scope.Key(),
		"committed", len(result.Committed),
		"unresolved", len(result.Unresolved),
		"duration", elapsed,
	)
	return result, nil
}

func (s *GenerationService) dispatch(ctx context.Context, scope models.GenerationScope) (*engine.Result, error) {
	switch {
	case scope.GroupID != "":
		return s.generator.GenerateForGroup(ctx, scope.GroupID)
	case scope.Cycle != nil:
		return s.generator.GenerateForCycle(ctx, scope.PeriodID, *scope.Cycle)
	default:
		return s.generator.GenerateForPeriod(ctx, scope.PeriodID)
	}
}

// lock serialises overlapping scopes within this process: period and cycle
// runs share the period lock; group runs lock their group.
func (s *GenerationService) lock(scope models.GenerationScope) func() {
	key := "period:" + scope.PeriodID
	if scope.GroupID != "" {
		key = "group:" + scope.GroupID
	}
	value, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *GenerationService) processJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generationJob)
	if !ok {
		s.logger.Sugar().Errorw("unexpected job payload", "job_id", job.ID)
		return nil
	}

	run, err := s.runs.Find(ctx, payload.RunID)
	if err != nil {
		s.logger.Sugar().Errorw("run record missing for job", "run_id", payload.RunID, "error", err)
		return nil
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusRunning
	run.StartedAt = &now
	if err := s.runs.Save(ctx, run); err != nil {
		return err
	}

	result, genErr := s.execute(ctx, payload.Scope)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if genErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = genErr.Error()
	} else {
		run.Status = models.RunStatusCompleted
		run.Stats = result.Stats
		run.Unresolved = len(result.Unresolved)
		run.Warnings = result.Warnings
	}
	return s.runs.Save(ctx, run)
}

func scopeKind(scope models.GenerationScope) string {
	switch {
	case scope.GroupID != "":
		return "group"
	case scope.Cycle != nil:
		return "cycle"
	default:
		return "period"
	}
}
