package v1

import (
	"github.com/zackiles/bluebird-queue/internal/models"
)

// NewRunFromModel converts a models.Run to an API Run.
func NewRunFromModel(run models.Run) Run {
	apiRun := Run{
		Id:          run.ID.String(),
		State:       runStateFromModel(run.State),
		JobCount:    run.JobCount,
		ResultCount: run.ResultCount,
		CreatedAt:   run.CreatedAt,
		UpdatedAt:   run.UpdatedAt,
	}

	if run.Error != "" {
		e := run.Error
		apiRun.Error = &e
	}

	return apiRun
}

// NewRunStatusResponse converts a live run status to the wire shape.
func NewRunStatusResponse(id string, status models.RunStatus, pending int) RunStatusResponse {
	resp := RunStatusResponse{
		Id:      id,
		State:   runStateFromModel(status.State),
		Pending: pending,
	}

	if status.Error != nil {
		e := status.Error.Error()
		resp.Error = &e
	}

	return resp
}

func runStateFromModel(state models.RunState) RunState {
	switch state {
	case models.RunStateRunning:
		return RunStateRunning
	case models.RunStateDraining:
		return RunStateDraining
	case models.RunStateCompleted:
		return RunStateCompleted
	case models.RunStateError:
		return RunStateError
	default:
		return RunStatePending
	}
}
