// Package handlers contains the HTTP route handler functions for the Kilterboard API.
// This file handles the two endpoints that must never fail: / and /health.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/kilterboard-api/internal/datasource"
)

// HealthResponse is the body of every /health response.
type HealthResponse struct {
	Status         string   `json:"status"`           // "healthy" or "unhealthy" — nothing in between
	DatabaseExists bool     `json:"database_exists"`  // Whether the backing store is present/reachable
	DatabasePath   string   `json:"database_path"`    // File path (sqlite) or provider URL (remote)
	DatabaseSizeMB *float64 `json:"database_size_mb"` // On-disk size; null when not applicable
	TotalClimbs    int64    `json:"total_climbs"`     // Total climb records, 0 when it can't be counted
}

// Root handles GET /.
// A static identification payload, unchanged since the very first version of
// the service. No inputs, no failure modes.
func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Kilterboard API"})
}

// HealthCheck returns the handler for GET /health.
// It reports whether the backing store is reachable, where it lives, how big
// it is, and how many climbs it holds. It's used by:
//   - Docker/Kubernetes readiness and liveness probes to decide if the container is healthy
//   - Load balancers to check whether to send traffic to this instance
//   - Operators checking whether the import tool has produced a store yet
//
// This endpoint always returns 200. Even when the store is missing it answers
// with status "unhealthy" rather than an error — probes need a parseable body,
// not a 5xx. For the same reason a failing count query silently degrades
// TotalClimbs to 0 instead of propagating; do not "fix" that, it's part of the
// health contract.
func HealthCheck(ds datasource.DataSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := ds.Info()

		// One CountAll answers both questions in the common case: a count that
		// succeeds proves the store is reachable, and for the remote source it
		// saves a second identical upstream probe per health request. Only when
		// the count fails for some reason other than "store missing" do we ask
		// about reachability separately.
		total, err := ds.CountAll()
		reachable := err == nil
		if err != nil {
			// Leave total at 0 and say nothing — see above.
			total = 0
			if !errors.Is(err, datasource.ErrUnavailable) {
				reachable = ds.IsReachable()
			}
		}

		status := "unhealthy"
		if reachable {
			status = "healthy"
		}

		return c.JSON(HealthResponse{
			Status:         status,
			DatabaseExists: reachable,
			DatabasePath:   info.Location,
			DatabaseSizeMB: info.SizeMB,
			TotalClimbs:    total,
		})
	}
}
