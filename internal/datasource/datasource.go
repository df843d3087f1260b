// Package datasource abstracts where climb records come from.
//
// The API has shipped in two configurations over its life: proxying an upstream
// provider, and reading a local sqlite file written by the boardlib import tool.
// Both answer the same four questions, so the handlers are written against this
// small capability interface and the backing store is chosen once at startup.
// This also keeps the store handle out of package globals — each handler gets
// the DataSource injected when its routes are registered.
package datasource

import (
	"errors"

	"github.com/trentd187/kilterboard-api/internal/models"
)

// Sentinel errors the handlers translate into HTTP statuses.
// Anything else coming out of a DataSource is treated as a failed query and
// surfaces as a 500 with the error's message — never swallowed.
var (
	// ErrNotFound means no record matched. Only GetByID returns it;
	// a search that matches nothing is an empty result, not an error.
	ErrNotFound = errors.New("climb not found")

	// ErrUnavailable means the backing store is missing or unreachable —
	// typically the import tool hasn't produced the sqlite file yet, or the
	// upstream provider is down. Maps to 503 rather than a generic 500 so
	// callers can tell "not imported yet" apart from "query blew up".
	ErrUnavailable = errors.New("datastore unavailable")
)

// StoreInfo describes the backing store for the health endpoint.
type StoreInfo struct {
	Location string   // File path for the sqlite store, base URL for the remote one
	SizeMB   *float64 // On-disk size in MB; nil when not applicable (remote) or file missing
}

// DataSource is the read-only capability the handlers need.
// Implementations: SQLiteSource (reference) and RemoteSource (adapter).
type DataSource interface {
	// Search returns climbs whose name contains query as a substring,
	// newest first, at most limit rows. An empty match set is ([], nil).
	Search(query string, limit int) ([]models.ClimbSummary, error)

	// GetByID returns the full record for an exact uuid, or ErrNotFound.
	GetByID(uuid string) (*models.ClimbDetail, error)

	// CountAll returns the total number of climb records in the store.
	CountAll() (int64, error)

	// IsReachable reports whether the store exists / answers at all.
	// It must never panic or block indefinitely; /health depends on it.
	IsReachable() bool

	// Info returns display metadata about the store for /health.
	Info() StoreInfo
}
