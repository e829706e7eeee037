// Package store implements the data access layer for the batch queue
// service.
//
// This package provides persistent storage using DuckDB for the run log: one
// row per batch run with its terminal state and counters. Pending queue
// state is deliberately NOT persisted; only the record of runs survives a
// restart.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                           RunStore                              │
//	│                              ▼                                  │
//	│                             runs                                │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  Run log: id, state, error, job/result      │
//	│                    │  counters, timestamps                       │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Query Construction
//
// Fixed-shape statements (get, upsert, delete) live as const SQL in
// queries.go. List and Count are built with squirrel and composed through
// functional ListOptions:
//
//	runs, err := store.Run().List(ctx,
//	    store.ByState("completed"),
//	    store.WithDefaultSort(),
//	    store.WithLimit(20),
//	    store.WithOffset(40),
//	)
//
// # Initialization Flow
//
//	db, _ := store.NewDB(cfg.DataFolder + "/runs.db")
//	_ = migrations.Run(ctx, db)
//	st := store.NewStore(db)
package store
