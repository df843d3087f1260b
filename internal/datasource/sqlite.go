// internal/datasource/sqlite.go — the reference DataSource implementation.
// Reads the sqlite file produced by the boardlib import tool.
package datasource

import (
	"fmt"
	"math"
	"os"
	"sync"

	"gorm.io/gorm"

	"github.com/trentd187/kilterboard-api/internal/database"
	"github.com/trentd187/kilterboard-api/internal/models"
)

// Column lists for the three-way join. The aliases are chosen to match the
// field names on models.ClimbSummary / models.ClimbDetail so GORM's Scan maps
// them without any extra tags. summaryColumns is the lightweight set for search
// result lists; detailColumns adds the heavyweight fields (description, frames)
// that only /climb/{uuid} returns.
const summaryColumns = `
	climbs.uuid AS uuid,
	climbs.name AS name,
	climbs.angle AS angle,
	climbs.setter_username AS setter,
	climbs.created_at AS created_at,
	climb_stats.display_difficulty AS display_difficulty,
	climb_stats.benchmark_difficulty AS benchmark_difficulty,
	climb_stats.ascensionist_count AS ascensionist_count,
	difficulty_grades.boulder_name AS boulder_grade,
	difficulty_grades.route_name AS route_grade`

const detailColumns = summaryColumns + `,
	climbs.description AS description,
	climbs.layout_id AS layout_id,
	climbs.frames AS frames,
	climb_stats.quality_average AS quality_average`

// SQLiteSource resolves queries against the local sqlite file.
//
// The file may not exist yet when the server starts (the import tool runs
// independently), so the GORM handle is opened lazily on first use and the
// file's existence is re-checked on every call. Checking first matters because
// the sqlite driver creates an empty file on open, which would turn "store
// missing" into a confusing "no such table" error forever after.
type SQLiteSource struct {
	path string

	// mu guards db: requests run concurrently and we only want one goroutine
	// opening the handle. Once opened, the *gorm.DB itself is safe for
	// concurrent use (it pools connections internally).
	mu sync.Mutex
	db *gorm.DB
}

// NewSQLiteSource returns a source reading the sqlite file at path.
// No I/O happens here; the file is checked per-request.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// conn returns the shared GORM handle, opening it on first use.
// Returns ErrUnavailable when the database file does not exist.
func (s *SQLiteSource) conn() (*gorm.DB, error) {
	// Stat before opening: a missing file is "service unavailable", and we must
	// not let the driver create an empty one in its place.
	if _, err := os.Stat(s.path); err != nil {
		return nil, ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := database.Connect(s.path)
		if err != nil {
			// The file is there but won't open (corrupt, locked, permissions).
			// Still an availability problem, not a per-query failure.
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		s.db = db
	}

	return s.db, nil
}

// joined builds the base query: climbs LEFT JOINed to its optional stats row
// and from there to the optional grade label. The grade join key is the stats'
// display_difficulty, which the importer stores as numeric text — the CAST
// makes the coercion explicit. sqlite casts non-numeric text to 0, which finds
// no grade row, so garbage difficulty text degrades to a null label rather
// than an error.
func (s *SQLiteSource) joined(db *gorm.DB, columns string) *gorm.DB {
	return db.Table("climbs").
		Select(columns).
		Joins("LEFT JOIN climb_stats ON climb_stats.climb_uuid = climbs.uuid").
		Joins("LEFT JOIN difficulty_grades ON difficulty_grades.difficulty = CAST(climb_stats.display_difficulty AS INTEGER)")
}

// Search implements DataSource. Substring match on name, newest climbs first.
func (s *SQLiteSource) Search(query string, limit int) ([]models.ClimbSummary, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	// Initialise to an empty slice (not nil) so a no-match search serialises
	// as "results": [] instead of "results": null. No capacity hint: limit is
	// caller-supplied with no ceiling, so sizing an allocation by it would let
	// a large value blow up before the query even runs. SQL's LIMIT does the
	// bounding; append grows as rows actually arrive.
	results := []models.ClimbSummary{}

	err = s.joined(db, summaryColumns).
		Where("climbs.name LIKE ?", "%"+query+"%").
		Order("climbs.created_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}

	return results, nil
}

// GetByID implements DataSource. Exact uuid match, same join as Search.
func (s *SQLiteSource) GetByID(uuid string) (*models.ClimbDetail, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	// Scan into a slice and length-check rather than using First(): First()
	// only reports gorm.ErrRecordNotFound on model queries, not on raw
	// Table(...).Scan(...) ones like this join.
	var rows []models.ClimbDetail
	err = s.joined(db, detailColumns).
		Where("climbs.uuid = ?", uuid).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("climb lookup: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return &rows[0], nil
}

// CountAll implements DataSource.
func (s *SQLiteSource) CountAll() (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := db.Model(&models.Climb{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count climbs: %w", err)
	}

	return total, nil
}

// IsReachable implements DataSource: for a file-backed store, reachable
// simply means the file exists.
func (s *SQLiteSource) IsReachable() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Info implements DataSource, reporting the file path and its on-disk size.
func (s *SQLiteSource) Info() StoreInfo {
	info := StoreInfo{Location: s.path}

	if stat, err := os.Stat(s.path); err == nil {
		// Round to two decimals — this is a human-facing health field, not a metric
		sizeMB := math.Round(float64(stat.Size())/(1024*1024)*100) / 100
		info.SizeMB = &sizeMB
	}

	return info
}
