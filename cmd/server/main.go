// cmd/server/main.go
// This is the entry point for the Kilterboard API server.
// In Go, the "main" package and its "main()" function is where the program starts executing.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds executable
// binaries, and internal/ holds reusable packages that are not meant to be imported by other projects.
package main

import (
	"log"

	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing — allows a browser front-end to talk to
	// the API even though they're running on different origins (hosts/ports)
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"

	// Internal packages — our own code, imported by module path
	"github.com/trentd187/kilterboard-api/internal/config"
	"github.com/trentd187/kilterboard-api/internal/datasource"
	"github.com/trentd187/kilterboard-api/internal/handlers"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	// cfg is a pointer (*Config) containing all runtime settings like port and database path.
	cfg := config.Load()

	// Pick the backing store. This is a build/deploy-time decision — the service
	// runs against exactly one store for its whole lifetime, there is no runtime
	// switching. Both variants satisfy datasource.DataSource, so everything past
	// this point is identical either way.
	var ds datasource.DataSource
	switch cfg.DataSource {
	case config.SourceRemote:
		if cfg.RemoteAPIURL == "" {
			log.Fatal("DATA_SOURCE=remote requires REMOTE_API_URL to be set")
		}
		ds = datasource.NewRemoteSource(cfg.RemoteAPIURL)
		log.Printf("Using remote provider at %s", cfg.RemoteAPIURL)
	default:
		ds = datasource.NewSQLiteSource(cfg.DatabasePath)
		log.Printf("Using sqlite database at %s", cfg.DatabasePath)
		// The import tool runs independently of this server, so a missing file at
		// startup is expected, not fatal. Data endpoints return 503 until it appears;
		// / and /health keep working regardless.
		if !ds.IsReachable() {
			log.Printf("Warning: %s does not exist yet - run the import tool to populate it", cfg.DatabasePath)
		}
	}

	// Create a new Fiber app (our HTTP server).
	app := fiber.New(fiber.Config{
		AppName: "Kilterboard API",
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	// logger.New() logs each HTTP request: method, path, status code, and duration.
	app.Use(logger.New())
	// Wide-open CORS: any origin, any method, any header. Deliberate — this is a
	// single-tenant service for local/front-end development, there is nothing to
	// protect and no auth to leak. Lock this down if that ever changes.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "*",
	}))

	// --- Routes ---
	// The whole surface is read-only; there is no write endpoint anywhere.
	// GET  /              — static identification payload
	// GET|POST /search    — substring search over climb names ("query" param or JSON body)
	// GET  /climb/:uuid   — full record for one climb
	// GET  /health        — store reachability + record count; never errors
	app.Get("/", handlers.Root)
	app.Get("/search", handlers.SearchClimbs(ds))
	app.Post("/search", handlers.SearchClimbs(ds))
	app.Get("/climb/:uuid", handlers.GetClimb(ds))
	app.Get("/health", handlers.HealthCheck(ds))

	// Start listening for HTTP connections on the configured port.
	// ":" + cfg.Port produces a string like ":8000" — listen on all network interfaces.
	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
