// Package config loads runtime configuration for the PaceDog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path/DSN of the local SQLite database
//	-r int      timer display refresh interval (milliseconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "100ms" or integer nanoseconds:
//
//	{
//	  "database_dsn": "pacedog.db",
//	  "timer_refresh_interval": "100ms"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
