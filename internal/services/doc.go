// Package services implements the business logic between the HTTP handlers
// and the batch scheduler and store.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                          Handlers                             │
//	└───────────────┬───────────────────────────────┬───────────────┘
//	                │                               │
//	                ▼                               ▼
//	┌───────────────────────────────┐   ┌───────────────────────────┐
//	│          RunService           │   │       ReportService       │
//	│                               │   │                           │
//	│  JobBuilder ─► batch.WorkItem │   │  run log ─► xlsx workbook │
//	│  one batch.Scheduler per run  │   │                           │
//	│  watch goroutine per run      │   └─────────────┬─────────────┘
//	└───────────────┬───────────────┘                 │
//	                │                                 │
//	                ▼                                 ▼
//	┌───────────────────────────────────────────────────────────────┐
//	│                        store (run log)                        │
//	└───────────────────────────────────────────────────────────────┘
//
// # RunService
//
// A submitted run goes through the following lifecycle:
//
//	pending ──► running ──► completed
//	               │   ▲         ▲
//	               ▼   │         │
//	            draining ────────┘
//	               │
//	               ▼
//	             error
//
// StartRun builds work items for each job id via the configured JobBuilder,
// enqueues them on a fresh batch.Scheduler and starts it. A watch goroutine
// awaits the scheduler's future, updates the in-memory status under the
// service mutex and persists the terminal record.
//
// Live runs are served from memory; Status falls back to the persisted run
// log for runs finished in a previous process. Pending queue contents are
// never persisted, only the run record.
//
// AddJobs feeds additional work through the scheduler's AddNow path: the
// work dispatches immediately when the run is idle, otherwise the in-flight
// batch's completion chain reaches it. Drain cancels the scheduler's retry
// timers and pushes the remaining batches through back to back.
//
// # ReportService
//
// ExportRuns renders the full run log into a single-sheet xlsx workbook,
// newest runs first. Handlers stream the workbook straight into the HTTP
// response.
package services
