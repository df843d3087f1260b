// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
//
// The data model mirrors what the boardlib import tool writes into the sqlite file:
//   - Climbs are the route records themselves (name, wall angle, hold frames, setter)
//   - ClimbStats holds community numbers for a climb (difficulty, ascents, quality)
//   - DifficultyGrades is a static lookup from a difficulty index to grade labels
//
// Everything here is read-only from the service's point of view: the import tool
// creates and owns every row, the API only queries them.
package models

// --- Table models ---
// Each struct below maps to a table in the imported sqlite file. The table names are
// pinned with TableName() methods rather than left to GORM's pluralisation rules,
// because the schema is owned by an external tool — we must match it exactly, not
// whatever GORM would have generated.

// Climb is a single bouldering problem as set on the board.
// Identified by an opaque string uuid assigned by the importer; the service never
// parses or generates these, it only matches on them.
type Climb struct {
	UUID           string `gorm:"primaryKey;column:uuid"` // Opaque unique id owned by the import tool
	LayoutID       int    // Which board layout (hold set / size) the climb belongs to
	Name           string // Display name; this is what /search matches against
	Description    string // Optional setter-provided description
	Frames         string // Encoded hold placement data; opaque to this service, rendered client-side
	Angle          *int   // Wall angle in degrees the climb was set at; pointer = nullable
	SetterUsername string // Account name of the person who set the climb
	CreatedAt      string // Timestamp string as written by the importer; used for newest-first ordering
}

// TableName pins the table name to the importer's schema.
func (Climb) TableName() string { return "climbs" }

// ClimbStats holds the community statistics for one climb.
// There is at most one row per climb, and a freshly-set climb may have none at all —
// every query that touches stats must LEFT JOIN and tolerate missing rows.
type ClimbStats struct {
	ClimbUUID           string   `gorm:"primaryKey;column:climb_uuid"` // One-to-one back to climbs.uuid
	DisplayDifficulty   *string  // Grade index shown to users, stored as numeric text by the importer
	BenchmarkDifficulty *string  // Community-calibrated alternative grade estimate
	AscensionistCount   *int64   // Number of recorded successful ascents
	QualityAverage      *float64 // Average star rating given by climbers
}

// TableName pins the table name to the importer's schema.
func (ClimbStats) TableName() string { return "climb_stats" }

// DifficultyGrade maps an integer difficulty index to human-readable grade labels.
// This is a small static lookup table; an index with no row simply means the climb
// gets no grade label (null), never an error.
type DifficultyGrade struct {
	Difficulty  int    `gorm:"primaryKey"` // The integer grade index (join key from display_difficulty)
	BoulderName string // Bouldering grade label, e.g. "V5/6B+"
	RouteName   string // Route grade label, e.g. "6c+"
}

// TableName pins the table name to the importer's schema.
func (DifficultyGrade) TableName() string { return "difficulty_grades" }

// --- Response shapes ---
// Flat structs scanned directly from the three-way LEFT JOIN and serialised as-is.
// Pointer fields stay nil (JSON null) when the stats row or grade label is missing.
// The column aliases in the datasource SELECT are chosen to line up with these
// field names, so one struct serves as both the scan target and the JSON response.

// ClimbSummary is one row of a /search response.
type ClimbSummary struct {
	UUID                string  `json:"uuid"`
	Name                string  `json:"name"`
	Angle               *int    `json:"angle"`
	Setter              string  `json:"setter"`
	CreatedAt           string  `json:"created_at"`
	DisplayDifficulty   *string `json:"display_difficulty"`
	BenchmarkDifficulty *string `json:"benchmark_difficulty"`
	AscensionistCount   *int64  `json:"ascensionist_count"`
	BoulderGrade        *string `json:"boulder_grade"` // Label from difficulty_grades, null if no match
	RouteGrade          *string `json:"route_grade"`   // Label from difficulty_grades, null if no match
}

// ClimbDetail is the full record returned by /climb/{uuid}.
// It is a strict superset of ClimbSummary: the same fields plus the heavyweight
// ones (description, frames) that would bloat a search result list.
type ClimbDetail struct {
	UUID                string   `json:"uuid"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Angle               *int     `json:"angle"`
	Setter              string   `json:"setter"`
	CreatedAt           string   `json:"created_at"`
	LayoutID            int      `json:"layout_id"`
	Frames              string   `json:"frames"`
	DisplayDifficulty   *string  `json:"display_difficulty"`
	BenchmarkDifficulty *string  `json:"benchmark_difficulty"`
	AscensionistCount   *int64   `json:"ascensionist_count"`
	QualityAverage      *float64 `json:"quality_average"`
	BoulderGrade        *string  `json:"boulder_grade"`
	RouteGrade          *string  `json:"route_grade"`
}
