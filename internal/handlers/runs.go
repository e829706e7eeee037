package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	v1 "github.com/zackiles/bluebird-queue/api/v1"
	"github.com/zackiles/bluebird-queue/internal/services"
	"github.com/zackiles/bluebird-queue/internal/util"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var knownStates = []string{"pending", "running", "draining", "completed", "error"}

// StartRun creates and starts a new batch run
// (POST /runs)
func (h *Handler) StartRun(c *gin.Context) {
	var req v1.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobs must be a non-empty list"})
		return
	}

	id, err := h.runSrv.StartRun(c.Request.Context(), req.Jobs)
	if err != nil {
		zap.S().Named("run_handler").Errorw("failed to start run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
		return
	}

	c.JSON(http.StatusCreated, v1.StartRunResponse{Id: id.String()})
}

// GetRuns returns the run log with filtering and pagination
// (GET /runs)
func (h *Handler) GetRuns(c *gin.Context) {
	var params v1.GetRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	for _, state := range params.State {
		if !util.Contains(knownStates, state) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown state: " + state})
			return
		}
	}

	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	result, err := h.runSrv.List(c.Request.Context(), services.RunListParams{
		States: params.State,
		Limit:  uint64(pageSize),
		Offset: uint64((page - 1) * pageSize),
	})
	if err != nil {
		zap.S().Named("run_handler").Errorw("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	apiRuns := make([]v1.Run, 0, len(result.Runs))
	for _, run := range result.Runs {
		apiRuns = append(apiRuns, v1.NewRunFromModel(run))
	}

	c.JSON(http.StatusOK, v1.RunListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Runs:      apiRuns,
	})
}

// GetRun returns the status of a single run
// (GET /runs/{id})
func (h *Handler) GetRun(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	status, pending, err := h.runSrv.Status(c.Request.Context(), id)
	if err != nil {
		if srvErrors.IsRunNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		zap.S().Named("run_handler").Errorw("failed to get run", "runId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	c.JSON(http.StatusOK, v1.NewRunStatusResponse(id.String(), status, pending))
}

// AddJobs appends jobs to a live run
// (PATCH /runs/{id})
func (h *Handler) AddJobs(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	var req v1.AddJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobs must be a non-empty list"})
		return
	}

	if err := h.runSrv.AddJobs(id, req.Jobs); err != nil {
		switch {
		case srvErrors.IsRunNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		case srvErrors.IsSchedulerDone(err):
			c.JSON(http.StatusConflict, gin.H{"error": "run already finished"})
		default:
			zap.S().Named("run_handler").Errorw("failed to add jobs", "runId", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add jobs"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DrainRun forces the run's remaining batches through
// (POST /runs/{id}/drain)
func (h *Handler) DrainRun(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	if err := h.runSrv.Drain(id); err != nil {
		if srvErrors.IsRunNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		zap.S().Named("run_handler").Errorw("failed to drain run", "runId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to drain run"})
		return
	}

	c.Status(http.StatusAccepted)
}

// ExportRuns streams the run log as an xlsx workbook
// (GET /runs/export)
func (h *Handler) ExportRuns(c *gin.Context) {
	f, err := h.reportSrv.ExportRuns(c.Request.Context())
	if err != nil {
		zap.S().Named("run_handler").Errorw("failed to export runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export runs"})
		return
	}

	filename := "runs-" + time.Now().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		zap.S().Named("run_handler").Errorw("failed to write report", "error", err)
	}
}

func (h *Handler) runID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return uuid.Nil, false
	}
	return id, true
}
