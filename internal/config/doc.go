// Package config defines the configuration structure for the batch queue
// service.
//
// Configuration is organized into logical sections (Server, Queue,
// Authentication) plus top-level logging settings, loaded with viper and
// filled with creasty/defaults.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Queue          - Batch scheduler settings
//	├── Auth           - Authentication settings
//	├── DataFolder     - Path to the DuckDB run log
//	├── LogFormat      - Logging format ("console" or "json")
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Queue Configuration
//
//	┌─────────────┬─────────┬──────────────────────────────────────────────┐
//	│ Field       │ Default │ Description                                  │
//	├─────────────┼─────────┼──────────────────────────────────────────────┤
//	│ Concurrency │ 4       │ Work items per batch                         │
//	│ Delay       │ 0s      │ Pause appended after each batch settles      │
//	│ Interval    │ 5s      │ Wait between dispatch retries while busy     │
//	└─────────────┴─────────┴──────────────────────────────────────────────┘
//
// # Authentication Configuration
//
//	┌───────────┬─────────┬────────────────────────────────────────┐
//	│ Field     │ Default │ Description                            │
//	├───────────┼─────────┼────────────────────────────────────────┤
//	│ Enabled   │ false   │ Enable JWT bearer authentication       │
//	│ JWTSecret │ ""      │ HMAC secret for token verification     │
//	└───────────┴─────────┴────────────────────────────────────────┘
//
// # Sources
//
// Load merges, in order of precedence: BBQ_-prefixed environment variables
// (BBQ_SERVER_HTTPPORT, BBQ_QUEUE_CONCURRENCY, ...), the config file given
// on the command line, then the struct defaults.
package config
