// Package server provides the HTTP server for the batch queue service.
//
// The server uses the Gin web framework with zap request logging and panic
// recovery.
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request/response logging)               │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery)                │  │
//	│  │  JWTAuth (optional, bearer token verification)          │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"): gin runs in debug mode.
// Production Mode (ServerMode = "prod"): gin runs in release mode.
//
// # Lifecycle
//
// Run serves until the given context is cancelled, then performs a graceful
// shutdown with a 10 second deadline for in-flight requests.
package server
