package models

import (
	"time"

	"github.com/google/uuid"
)

// RunState represents the current state of a batch run.
type RunState string

const (
	// RunStatePending - run created, waiting for dispatch
	RunStatePending RunState = "pending"
	// RunStateRunning - batches currently being dispatched
	RunStateRunning RunState = "running"
	// RunStateDraining - forced drain requested, batches pushed through
	RunStateDraining RunState = "draining"
	// RunStateCompleted - all work settled, results collected
	RunStateCompleted RunState = "completed"
	// RunStateError - a work item or the dispatcher failed
	RunStateError RunState = "error"
)

func (r RunState) Value() string {
	return string(r)
}

// RunStatus holds the current state of a run and its error, if any.
type RunStatus struct {
	State RunState
	Error error
}

// Run represents a batch run stored in the database.
type Run struct {
	ID          uuid.UUID
	State       RunState
	Error       string
	JobCount    int
	ResultCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
