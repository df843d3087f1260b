// internal/datasource/remote.go — the remote-provider DataSource adapter.
//
// The first iterations of this service didn't read a local file at all: they
// passed queries through to an upstream provider. This adapter keeps that
// deployment mode alive behind the same DataSource interface. The upstream is
// expected to speak this service's own HTTP contract (/search, /climb/{uuid},
// /health), so another instance of this API can serve as the provider.
package datasource

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	// fiber's bundled Agent is a thin fasthttp client — no extra dependency
	// beyond the framework we already serve HTTP with.
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/kilterboard-api/internal/models"
)

// remoteTimeout bounds every upstream call. Without it a wedged provider would
// hold request goroutines (and /health) hostage forever.
const remoteTimeout = 10 * time.Second

// RemoteSource resolves queries against an upstream copy of this API.
type RemoteSource struct {
	baseURL string
}

// NewRemoteSource returns a source calling the provider at baseURL
// (e.g. "https://kilter.example.com"). A trailing slash is tolerated.
func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{baseURL: strings.TrimRight(baseURL, "/")}
}

// get performs one upstream GET and returns the status code and body.
// Transport-level failures (DNS, refused connection, timeout) become
// ErrUnavailable — the provider is unreachable, not misbehaving.
func (r *RemoteSource) get(path string) (int, []byte, error) {
	agent := fiber.Get(r.baseURL + path)
	agent.Timeout(remoteTimeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, errs[0])
	}

	return code, body, nil
}

// decode maps an upstream response onto the local error taxonomy and, on
// success, unmarshals the body into out.
func decode(code int, body []byte, out interface{}) error {
	switch code {
	case fiber.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
		return nil
	case fiber.StatusNotFound:
		return ErrNotFound
	case fiber.StatusServiceUnavailable:
		// The provider itself has no store — from our caller's point of view
		// that's the same as the provider being down.
		return ErrUnavailable
	default:
		// Pass the provider's message through; it already is human-readable.
		return fmt.Errorf("provider returned %d: %s", code, strings.TrimSpace(string(body)))
	}
}

// Search implements DataSource by forwarding to the provider's /search.
func (r *RemoteSource) Search(query string, limit int) ([]models.ClimbSummary, error) {
	code, body, err := r.get("/search?query=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}

	// Unwrap the provider's {query, results, count} envelope; the handler
	// layer re-wraps with our own query string and count.
	var envelope struct {
		Results []models.ClimbSummary `json:"results"`
	}
	if err := decode(code, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Results == nil {
		envelope.Results = []models.ClimbSummary{}
	}

	return envelope.Results, nil
}

// GetByID implements DataSource by forwarding to the provider's /climb/{uuid}.
func (r *RemoteSource) GetByID(uuid string) (*models.ClimbDetail, error) {
	code, body, err := r.get("/climb/" + url.PathEscape(uuid))
	if err != nil {
		return nil, err
	}

	var detail models.ClimbDetail
	if err := decode(code, body, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// CountAll implements DataSource by reading total_climbs from the provider's
// health endpoint — the provider counts its own store so we don't have to.
func (r *RemoteSource) CountAll() (int64, error) {
	code, body, err := r.get("/health")
	if err != nil {
		return 0, err
	}

	var health struct {
		TotalClimbs int64 `json:"total_climbs"`
	}
	if err := decode(code, body, &health); err != nil {
		return 0, err
	}

	return health.TotalClimbs, nil
}

// IsReachable implements DataSource: the provider is reachable when its
// health endpoint answers at all (health always returns 200 by contract).
func (r *RemoteSource) IsReachable() bool {
	code, _, err := r.get("/health")
	return err == nil && code == fiber.StatusOK
}

// Info implements DataSource. There is no local file, so no size to report.
func (r *RemoteSource) Info() StoreInfo {
	return StoreInfo{Location: r.baseURL}
}
