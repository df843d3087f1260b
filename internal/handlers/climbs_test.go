package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/kilterboard-api/internal/database"
	"github.com/trentd187/kilterboard-api/internal/datasource"
	"github.com/trentd187/kilterboard-api/internal/models"
)

// ptr returns a pointer to v — convenience for the nullable fixture fields.
func ptr[T any](v T) *T { return &v }

// Fixture uuids, shared by the tests below.
var (
	uuidCorner = uuid.NewString() // "Crimpy Corner": no stats row
	uuidLadder = uuid.NewString() // "Crimp Ladder": full stats + grade label
)

// newTestApp builds the same route table main() wires up, backed by a
// migrated and seeded sqlite fixture store.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kilter.db")
	require.NoError(t, database.RunMigrations(path, "../../migrations"))

	db, err := database.Connect(path)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.DifficultyGrade{
		Difficulty: 13, BoulderName: "V5/6B+", RouteName: "6c+",
	}).Error)
	require.NoError(t, db.Create(&[]models.Climb{
		{UUID: uuidCorner, LayoutID: 1, Name: "Crimpy Corner", Angle: ptr(40),
			SetterUsername: "edgelord", CreatedAt: "2024-03-01 09:00:00"},
		{UUID: uuidLadder, LayoutID: 1, Name: "Crimp Ladder", Description: "straight up",
			Frames: "p1100r15p1150r12", Angle: ptr(45), SetterUsername: "setter2",
			CreatedAt: "2024-05-10 18:30:00"},
	}).Error)
	require.NoError(t, db.Create(&models.ClimbStats{
		ClimbUUID: uuidLadder, DisplayDifficulty: ptr("13.0"), BenchmarkDifficulty: ptr("13.5"),
		AscensionistCount: ptr(int64(42)), QualityAverage: ptr(2.8),
	}).Error)

	return newApp(datasource.NewSQLiteSource(path))
}

// newApp registers the routes on a bare fiber app for a given source.
func newApp(ds datasource.DataSource) *fiber.App {
	app := fiber.New()
	app.Get("/", Root)
	app.Get("/search", SearchClimbs(ds))
	app.Post("/search", SearchClimbs(ds))
	app.Get("/climb/:uuid", GetClimb(ds))
	app.Get("/health", HealthCheck(ds))
	return app
}

// doJSON runs a request through the app and unmarshals the response body.
func doJSON(t *testing.T, app *fiber.App, req *http.Request, out interface{}) *http.Response {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	if out != nil {
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp
}

// recordingSource counts datasource calls — used to prove the empty-query
// short-circuit never hits the store.
type recordingSource struct {
	searches int
}

func (r *recordingSource) Search(string, int) ([]models.ClimbSummary, error) {
	r.searches++
	return []models.ClimbSummary{}, nil
}
func (r *recordingSource) GetByID(string) (*models.ClimbDetail, error) {
	return nil, datasource.ErrNotFound
}
func (r *recordingSource) CountAll() (int64, error) { return 0, nil }

func (r *recordingSource) IsReachable() bool { return true }

func (r *recordingSource) Info() datasource.StoreInfo { return datasource.StoreInfo{} }

// brokenQuerySource fails every query with a plain error — the "store is
// there but the query blew up" case, which must surface as a 500 carrying
// the message, not a 503 and not a swallowed failure.
type brokenQuerySource struct{}

func (brokenQuerySource) Search(string, int) ([]models.ClimbSummary, error) {
	return nil, errors.New("database disk image is malformed")
}

func (brokenQuerySource) GetByID(string) (*models.ClimbDetail, error) {
	return nil, errors.New("database disk image is malformed")
}

func (brokenQuerySource) CountAll() (int64, error) { return 0, nil }

func (brokenQuerySource) IsReachable() bool { return true }

func (brokenQuerySource) Info() datasource.StoreInfo { return datasource.StoreInfo{} }

func TestSearchQueryFailureIs500WithMessage(t *testing.T) {
	app := newApp(brokenQuerySource{})

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/search?query=crimp", nil), &body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "database disk image is malformed")
}

func TestGetClimbQueryFailureIs500WithMessage(t *testing.T) {
	app := newApp(brokenQuerySource{})

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/climb/some-uuid", nil), &body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "database disk image is malformed")
}

func TestRootIdentification(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/", nil), &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kilterboard API", body["message"])
}

func TestSearchGet(t *testing.T) {
	app := newTestApp(t)

	var body SearchResponse
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/search?query=crimp", nil), &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "crimp", body.Query)
	assert.Equal(t, len(body.Results), body.Count)
	require.Len(t, body.Results, 2)

	// Newest first, and the join fields land where they should
	first := body.Results[0]
	assert.Equal(t, uuidLadder, first.UUID)
	require.NotNil(t, first.BoulderGrade)
	assert.Equal(t, "V5/6B+", *first.BoulderGrade)

	// The climb without stats serialises its stats fields as null, not as an error
	second := body.Results[1]
	assert.Equal(t, uuidCorner, second.UUID)
	assert.Nil(t, second.DisplayDifficulty)
	assert.Nil(t, second.BoulderGrade)
	require.NotNil(t, second.Angle)
	assert.Equal(t, 40, *second.Angle)
}

func TestSearchPostBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"crimp","limit":1}`))
	req.Header.Set("Content-Type", "application/json")

	var body SearchResponse
	resp := doJSON(t, app, req, &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "crimp", body.Query)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Crimp Ladder", body.Results[0].Name)
}

func TestSearchPostInvalidBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	var body map[string]string
	resp := doJSON(t, app, req, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	ds := &recordingSource{}
	app := newApp(ds)

	for _, query := range []string{"", "%20%20%20", "%09%20"} { // empty, spaces, tab+space
		var body SearchResponse
		resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/search?query="+query, nil), &body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 0, body.Count)
		assert.NotNil(t, body.Results)
		assert.Empty(t, body.Results)
	}

	// The store was never consulted
	assert.Equal(t, 0, ds.searches)
}

func TestSearchUnavailableWithoutStore(t *testing.T) {
	// Point at a file the import tool never produced
	ds := datasource.NewSQLiteSource(filepath.Join(t.TempDir(), "missing.db"))
	app := newApp(ds)

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/search?query=crimp", nil), &body)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestGetClimbDetail(t *testing.T) {
	app := newTestApp(t)

	var detail models.ClimbDetail
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/climb/"+uuidLadder, nil), &detail)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uuidLadder, detail.UUID)
	assert.Equal(t, "Crimp Ladder", detail.Name)

	// Detail is a superset of a search row: the search fields are present...
	require.NotNil(t, detail.DisplayDifficulty)
	assert.Equal(t, "13.0", *detail.DisplayDifficulty)
	require.NotNil(t, detail.BoulderGrade)
	assert.Equal(t, "V5/6B+", *detail.BoulderGrade)

	// ...and so are the detail-only ones
	assert.Equal(t, "straight up", detail.Description)
	assert.Equal(t, 1, detail.LayoutID)
	assert.Equal(t, "p1100r15p1150r12", detail.Frames)
	require.NotNil(t, detail.QualityAverage)
	assert.InDelta(t, 2.8, *detail.QualityAverage, 0.0001)
}

func TestGetClimbNotFound(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/climb/does-not-exist", nil), &body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "climb not found", body["error"])
}
