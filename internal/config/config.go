// Package config handles loading and validating runtime configuration for the Kilterboard API.
// Configuration values (like the sqlite file path and API port) are read from environment
// variables rather than being hardcoded. This follows the "12-factor app" methodology, which
// recommends storing config in the environment so the same binary can run in dev, staging,
// and production without changing any code — just swap the environment variables.
package config

import (
	"os"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	// This is convenient in development: create a .env file with your settings and they're
	// automatically available as environment variables. In production, real env vars are used instead.
	"github.com/joho/godotenv"
)

// Names of the accepted DATA_SOURCE values. The backing store is picked once at
// startup and is not switchable at runtime.
const (
	SourceSQLite = "sqlite" // Read from a local sqlite file produced by the boardlib import tool
	SourceRemote = "remote" // Resolve queries against an upstream instance of this API
)

// Config holds all runtime configuration values for the application.
// Using a struct groups related settings together and makes them easy to pass around.
type Config struct {
	Port         string // The TCP port the HTTP server will listen on (e.g., "8000")
	Env          string // The runtime environment: "development", "staging", or "production"
	DataSource   string // Which backing store to use: "sqlite" (default) or "remote"
	DatabasePath string // Path to the sqlite file written by the import tool (sqlite source only)
	RemoteAPIURL string // Base URL of the upstream provider (remote source only)
}

// Load reads configuration from environment variables and returns a populated Config.
// It first tries to load a .env file for local development. The underscore (_) discards
// the error from godotenv.Load — if there's no .env file (e.g., in production), that's fine.
func Load() *Config {
	// Attempt to load a .env file from the current working directory.
	// The error is intentionally ignored: missing .env is acceptable in production
	// because real environment variables will already be set by the deployment platform.
	_ = godotenv.Load()

	// os.Getenv returns the value of an environment variable, or "" if it isn't set.
	// We provide sensible defaults for everything: a fresh checkout with a db file
	// next to the binary should start with no configuration at all.
	port := os.Getenv("PORT")
	if port == "" {
		// The original service ran on 8000; keep that so existing clients don't move
		port = "8000"
	}

	env := os.Getenv("ENV")
	if env == "" {
		// Default to "development" so local runs don't accidentally behave like production
		env = "development"
	}

	source := os.Getenv("DATA_SOURCE")
	if source != SourceRemote {
		// Anything other than an explicit "remote" means the local sqlite store.
		// The sqlite variant is the reference implementation.
		source = SourceSQLite
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		// The import tool's default output name
		dbPath = "kilter.db"
	}

	return &Config{
		Port:         port,
		Env:          env,
		DataSource:   source,
		DatabasePath: dbPath,
		RemoteAPIURL: os.Getenv("REMOTE_API_URL"), // Required only when DATA_SOURCE=remote
	}
}
