package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zackiles/bluebird-queue/internal/models"
	"github.com/zackiles/bluebird-queue/internal/store"
	"github.com/zackiles/bluebird-queue/pkg/batch"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

// RunService owns one batch scheduler per submitted run. Live runs are
// tracked in memory; terminal runs are persisted to the run log.
type RunService struct {
	builder models.JobBuilder
	store   *store.Store
	opts    batch.Options

	mu   sync.Mutex
	runs map[uuid.UUID]*activeRun

	log *zap.SugaredLogger
}

type activeRun struct {
	sched  *batch.Scheduler
	status models.RunStatus
	jobs   int
}

func NewRunService(builder models.JobBuilder, st *store.Store, opts batch.Options) *RunService {
	return &RunService{
		builder: builder,
		store:   st,
		opts:    opts,
		runs:    make(map[uuid.UUID]*activeRun),
		log:     zap.S().Named("run_service"),
	}
}

// StartRun builds work for the submitted job ids, enqueues it on a fresh
// scheduler and starts the run. The returned id identifies the run for
// status, drain and add operations.
func (s *RunService) StartRun(ctx context.Context, jobIDs []string) (uuid.UUID, error) {
	if len(jobIDs) == 0 {
		return uuid.Nil, fmt.Errorf("no jobs submitted")
	}

	sched, err := batch.New(s.opts)
	if err != nil {
		return uuid.Nil, err
	}

	var items []batch.WorkItem
	for _, jobID := range jobIDs {
		items = append(items, s.builder.Build(jobID)...)
	}
	if err := sched.Add(items...); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	r := &activeRun{
		sched:  sched,
		status: models.RunStatus{State: models.RunStateRunning},
		jobs:   len(jobIDs),
	}

	s.mu.Lock()
	s.runs[id] = r
	s.mu.Unlock()

	if err := s.store.Run().Save(ctx, &models.Run{
		ID:       id,
		State:    models.RunStateRunning,
		JobCount: len(jobIDs),
	}); err != nil {
		s.log.Errorw("failed to persist run", "runId", id, "error", err)
	}

	fut := sched.Start()
	go s.watch(id, r, fut)

	s.log.Infow("run started", "runId", id, "jobs", len(jobIDs), "items", len(items))
	return id, nil
}

// AddJobs enqueues more jobs onto a live run. The scheduler dispatches them
// immediately when idle; otherwise the in-flight batch's completion reaches
// them.
func (s *RunService) AddJobs(runID uuid.UUID, jobIDs []string) error {
	r, err := s.get(runID)
	if err != nil {
		return err
	}

	for _, jobID := range jobIDs {
		for _, item := range s.builder.Build(jobID) {
			if err := r.sched.AddNow(item); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	r.jobs += len(jobIDs)
	s.mu.Unlock()

	s.log.Infow("jobs added to run", "runId", runID, "jobs", len(jobIDs))
	return nil
}

// Drain forces the run's remaining batches through without the retry wait.
func (s *RunService) Drain(runID uuid.UUID) error {
	r, err := s.get(runID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if r.status.State == models.RunStateRunning {
		r.status.State = models.RunStateDraining
	}
	s.mu.Unlock()

	r.sched.Drain()
	s.log.Infow("run drained", "runId", runID)
	return nil
}

// Status reports the current state of a live or finished run.
func (s *RunService) Status(ctx context.Context, runID uuid.UUID) (models.RunStatus, int, error) {
	s.mu.Lock()
	r, ok := s.runs[runID]
	var status models.RunStatus
	if ok {
		status = r.status
	}
	s.mu.Unlock()
	if ok {
		return status, r.sched.Pending(), nil
	}

	// Fall back to the persisted log for runs from a previous process.
	run, err := s.store.Run().Get(ctx, runID)
	if err != nil {
		return models.RunStatus{}, 0, err
	}
	status = models.RunStatus{State: run.State}
	if run.Error != "" {
		status.Error = fmt.Errorf("%s", run.Error)
	}
	return status, 0, nil
}

type RunListParams struct {
	States []string
	Limit  uint64
	Offset uint64
}

type RunListResult struct {
	Runs  []models.Run
	Total int
}

func (s *RunService) List(ctx context.Context, params RunListParams) (*RunListResult, error) {
	opts := []store.ListOption{store.WithDefaultSort()}
	countOpts := []store.ListOption{}

	if len(params.States) > 0 {
		opts = append(opts, store.ByState(params.States...))
		countOpts = append(countOpts, store.ByState(params.States...))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	runs, err := s.store.Run().List(ctx, opts...)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Run().Count(ctx, countOpts...)
	if err != nil {
		return nil, err
	}

	return &RunListResult{Runs: runs, Total: total}, nil
}

func (s *RunService) get(runID uuid.UUID) (*activeRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, srvErrors.NewRunNotFoundError(runID)
	}
	return r, nil
}

func (s *RunService) watch(id uuid.UUID, r *activeRun, fut *future.Future[[]any]) {
	res := <-fut.C()

	record := models.Run{ID: id}

	s.mu.Lock()
	record.JobCount = r.jobs
	if res.Err != nil {
		r.status = models.RunStatus{State: models.RunStateError, Error: res.Err}
		record.State = models.RunStateError
		record.Error = res.Err.Error()
	} else {
		r.status = models.RunStatus{State: models.RunStateCompleted}
		record.State = models.RunStateCompleted
		record.ResultCount = len(res.Data)
	}
	s.mu.Unlock()

	if err := s.store.Run().Save(context.Background(), &record); err != nil {
		s.log.Errorw("failed to persist finished run", "runId", id, "error", err)
	}

	if res.Err != nil {
		s.log.Errorw("run failed", "runId", id, "error", res.Err)
		return
	}
	s.log.Infow("run completed", "runId", id, "results", len(res.Data))
}
