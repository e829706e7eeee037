package v1

import "time"

type RunState string

const (
	RunStatePending   RunState = "pending"
	RunStateRunning   RunState = "running"
	RunStateDraining  RunState = "draining"
	RunStateCompleted RunState = "completed"
	RunStateError     RunState = "error"
)

// StartRunRequest submits a new batch run.
type StartRunRequest struct {
	Jobs []string `json:"jobs" binding:"required,min=1"`
}

// StartRunResponse carries the id of the created run.
type StartRunResponse struct {
	Id string `json:"id"`
}

// AddJobsRequest appends jobs to a live run.
type AddJobsRequest struct {
	Jobs []string `json:"jobs" binding:"required,min=1"`
}

// Run is the wire representation of a batch run.
type Run struct {
	Id          string    `json:"id"`
	State       RunState  `json:"state"`
	Error       *string   `json:"error,omitempty"`
	JobCount    int       `json:"jobCount"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RunStatusResponse reports the live status of a run.
type RunStatusResponse struct {
	Id      string   `json:"id"`
	State   RunState `json:"state"`
	Error   *string  `json:"error,omitempty"`
	Pending int      `json:"pending"`
}

// RunListResponse is a paginated page of the run log.
type RunListResponse struct {
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
	Runs      []Run `json:"runs"`
}

// GetRunsParams holds the query parameters of GET /runs.
type GetRunsParams struct {
	State    []string `form:"state"`
	Page     *int     `form:"page"`
	PageSize *int     `form:"pageSize"`
}
