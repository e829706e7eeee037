package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/zackiles/bluebird-queue/internal/store"
)

const reportSheet = "Runs"

var reportHeader = []string{"ID", "State", "Error", "Jobs", "Results", "Created", "Updated"}

// ReportService exports the run log as an xlsx workbook.
type ReportService struct {
	store *store.Store
}

func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st}
}

func (s *ReportService) ExportRuns(ctx context.Context) (*excelize.File, error) {
	runs, err := s.store.Run().List(ctx, store.WithDefaultSort())
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	for col, name := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, run := range runs {
		values := []any{
			run.ID.String(),
			string(run.State),
			run.Error,
			run.JobCount,
			run.ResultCount,
			run.CreatedAt,
			run.UpdatedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
