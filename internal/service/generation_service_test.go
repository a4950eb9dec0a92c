package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadplan/timetable-api/internal/engine"
	"github.com/acadplan/timetable-api/internal/models"
	"github.com/acadplan/timetable-api/pkg/config"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
)

type stubEngine struct {
	result *engine.Result
	err    error

	periodCalls []string
	cycleCalls  []int
	groupCalls  []string
}

func (s *stubEngine) GenerateForPeriod(_ context.Context, periodID string) (*engine.Result, error) {
	s.periodCalls = append(s.periodCalls, periodID)
	return s.result, s.err
}

func (s *stubEngine) GenerateForCycle(_ context.Context, _ string, cycle int) (*engine.Result, error) {
	s.cycleCalls = append(s.cycleCalls, cycle)
	return s.result, s.err
}

func (s *stubEngine) GenerateForGroup(_ context.Context, groupID string) (*engine.Result, error) {
	s.groupCalls = append(s.groupCalls, groupID)
	return s.result, s.err
}

func generatorConfig() config.GeneratorConfig {
	return config.GeneratorConfig{Enabled: true, WorkerConcurrency: 1, WorkerRetries: 1}
}

func okResult() *engine.Result {
	return &engine.Result{
		Scope: models.PeriodScope("p1"),
		Stats: map[string]int{"sessions_required": 2, "sessions_committed": 2, "sessions_unplaced": 0},
	}
}

func TestGeneratePeriodDelegatesToEngine(t *testing.T) {
	eng := &stubEngine{result: okResult()}
	svc := NewGenerationService(eng, NewMemoryRunStore(), NewMetricsService(), nil, generatorConfig())

	result, err := svc.GeneratePeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, eng.periodCalls)
	assert.Equal(t, 2, result.Stats["sessions_committed"])
}

func TestGenerateCycleAndGroupDispatch(t *testing.T) {
	eng := &stubEngine{result: okResult()}
	svc := NewGenerationService(eng, NewMemoryRunStore(), NewMetricsService(), nil, generatorConfig())

	_, err := svc.GenerateCycle(context.Background(), "p1", 3)
	require.NoError(t, err)
	_, err = svc.GenerateGroup(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, []int{3}, eng.cycleCalls)
	assert.Equal(t, []string{"g1"}, eng.groupCalls)
}

func TestGenerateWhenDisabledReturnsFeatureDisabled(t *testing.T) {
	eng := &stubEngine{result: okResult()}
	cfg := generatorConfig()
	cfg.Enabled = false
	svc := NewGenerationService(eng, NewMemoryRunStore(), NewMetricsService(), nil, cfg)

	_, err := svc.GeneratePeriod(context.Background(), "p1")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErr.Code)
	assert.Empty(t, eng.periodCalls)
}

func TestGeneratePeriodPropagatesEngineError(t *testing.T) {
	eng := &stubEngine{err: appErrors.Clone(appErrors.ErrScopeNotFound, "period not found")}
	svc := NewGenerationService(eng, NewMemoryRunStore(), NewMetricsService(), nil, generatorConfig())

	_, err := svc.GeneratePeriod(context.Background(), "missing")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScopeNotFound.Code, appErr.Code)
}

func TestEnqueuePeriodRunCompletesInBackground(t *testing.T) {
	eng := &stubEngine{result: okResult()}
	store := NewMemoryRunStore()
	svc := NewGenerationService(eng, store, NewMetricsService(), nil, generatorConfig())
	svc.Start(context.Background())
	defer svc.Stop()

	run, err := svc.EnqueuePeriodRun(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, run.Status)

	deadline := time.Now().Add(2 * time.Second)
	for {
		current, err := store.Find(context.Background(), run.ID)
		require.NoError(t, err)
		if current.Status == models.RunStatusCompleted {
			assert.Equal(t, 2, current.Stats["sessions_committed"])
			assert.NotNil(t, current.FinishedAt)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run never completed, status %s", current.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEnqueuePeriodRunRecordsEngineFailure(t *testing.T) {
	eng := &stubEngine{err: appErrors.Clone(appErrors.ErrScopeNotFound, "period not found")}
	store := NewMemoryRunStore()
	svc := NewGenerationService(eng, store, NewMetricsService(), nil, generatorConfig())
	svc.Start(context.Background())
	defer svc.Stop()

	run, err := svc.EnqueuePeriodRun(context.Background(), "missing")
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for {
		current, err := store.Find(context.Background(), run.ID)
		require.NoError(t, err)
		if current.Status == models.RunStatusFailed {
			assert.Contains(t, current.Error, "period not found")
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run never failed, status %s", current.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetRunUnknownReturnsNotFound(t *testing.T) {
	svc := NewGenerationService(&stubEngine{}, NewMemoryRunStore(), NewMetricsService(), nil, generatorConfig())

	_, err := svc.GetRun(context.Background(), "missing")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
