package handlers

import (
	"github.com/zackiles/bluebird-queue/internal/services"
)

type Handler struct {
	runSrv    *services.RunService
	reportSrv *services.ReportService
}

func New(runSrv *services.RunService, reportSrv *services.ReportService) *Handler {
	return &Handler{
		runSrv:    runSrv,
		reportSrv: reportSrv,
	}
}
