// Package handlers contains the HTTP route handler functions for the Kilterboard API.
// This file handles the data endpoints: /search and /climb/{uuid}.
//
// Each exported function follows the "handler factory" pattern: it takes a
// datasource.DataSource and returns a fiber.Handler (a function that handles a
// single HTTP request). This lets us inject the backing store without using
// global variables — and lets the tests hand in a fixture store or a stub.
package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/kilterboard-api/internal/datasource"
	"github.com/trentd187/kilterboard-api/internal/models"
)

// DefaultSearchLimit caps a search when the caller doesn't ask for a limit.
// There is deliberately no upper ceiling: a caller-supplied limit is passed
// through as-is (single-tenant service, callers are trusted).
const DefaultSearchLimit = 50

// SearchRequest is the JSON body accepted on POST /search.
// GET callers pass the same values as query parameters instead.
type SearchRequest struct {
	Query string `json:"query"` // Substring to match against climb names
	Limit int    `json:"limit"` // Optional row cap; <= 0 means "use the default"
}

// SearchResponse is the envelope every /search response uses.
type SearchResponse struct {
	Query   string                `json:"query"`   // Echo of the search term
	Results []models.ClimbSummary `json:"results"` // Matching climbs, newest first
	Count   int                   `json:"count"`   // Always len(Results)
}

// dataError translates a datasource error into the right HTTP response.
// The mapping is the whole error policy of the service:
//   - store missing/unreachable  → 503 (distinct from a generic failure on purpose:
//     it usually just means the import tool hasn't run yet)
//   - no matching record         → 404
//   - anything else              → 500, with the underlying message passed through
//     so the failure is visible to the caller rather than swallowed
func dataError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, datasource.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "database not available - run the import tool first",
		})
	case errors.Is(err, datasource.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "climb not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

// SearchClimbs returns the handler for GET|POST /search.
// The search term comes from the "query" query-parameter or, on POST, from a
// JSON body (the body wins when both are present, matching the original API
// where POST-with-body was the only form).
func SearchClimbs(ds datasource.DataSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Start from the query parameters — valid for both GET and POST
		query := c.Query("query")
		limit := c.QueryInt("limit", 0)

		// A POST body overrides the query parameters when it carries values
		if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
			var req SearchRequest
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid request body",
				})
			}
			if req.Query != "" {
				query = req.Query
			}
			if req.Limit > 0 {
				limit = req.Limit
			}
		}

		if limit <= 0 {
			limit = DefaultSearchLimit
		}

		// Blank search → empty result, not an error. Short-circuit before ever
		// touching the store: a blank "contains" match would otherwise return
		// the entire table.
		if strings.TrimSpace(query) == "" {
			return c.JSON(SearchResponse{
				Query:   query,
				Results: []models.ClimbSummary{},
				Count:   0,
			})
		}

		results, err := ds.Search(query, limit)
		if err != nil {
			return dataError(c, err)
		}

		return c.JSON(SearchResponse{
			Query:   query,
			Results: results,
			Count:   len(results),
		})
	}
}

// GetClimb returns the handler for GET /climb/:uuid.
// Looks up a single climb by its exact uuid and returns the full detail record
// (everything /search returns, plus description, layout_id, frames and
// quality_average).
func GetClimb(ds datasource.DataSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The uuid is an opaque string owned by the import tool — no format
		// validation here, an unknown one simply won't match anything.
		climb, err := ds.GetByID(c.Params("uuid"))
		if err != nil {
			return dataError(c, err)
		}

		return c.JSON(climb)
	}
}
