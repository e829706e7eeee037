// Package handlers implements the HTTP endpoints of the batch queue
// service.
//
// # Endpoints
//
//	┌────────┬──────────────────┬────────────────────────────────────────┐
//	│ Method │ Path             │ Description                            │
//	├────────┼──────────────────┼────────────────────────────────────────┤
//	│ POST   │ /runs            │ Submit job ids, start a new run        │
//	│ GET    │ /runs            │ Run log, state filter + pagination     │
//	│ GET    │ /runs/export     │ Run log as an xlsx workbook            │
//	│ GET    │ /runs/:id        │ Live status of a run                   │
//	│ PATCH  │ /runs/:id        │ Add jobs to a live run                 │
//	│ POST   │ /runs/:id/drain  │ Force remaining batches through        │
//	└────────┴──────────────────┴────────────────────────────────────────┘
//
// Handlers translate between the api/v1 wire types and the services layer;
// domain errors map to status codes (run not found → 404, run already
// finished → 409). Pagination follows page/pageSize with a default of 20
// and a ceiling of 100 items per page.
package handlers
