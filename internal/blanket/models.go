package blanket

// TemperatureRange is one bucket of the seeded color table. Ranges are
// inclusive on both ends and ordered hottest-first by DisplayOrder.
type TemperatureRange struct {
	ID           int64  `db:"id" json:"id"`
	MinTemp      int    `db:"min_temp" json:"min_temp"`
	MaxTemp      int    `db:"max_temp" json:"max_temp"`
	ColorName    string `db:"color_name" json:"color_name"`
	ColorHex     string `db:"color_hex" json:"color_hex"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

// RangeInsert is a TemperatureRange without its assigned row id.
type RangeInsert struct {
	MinTemp      int
	MaxTemp      int
	ColorName    string
	ColorHex     string
	DisplayOrder int
}

// ColorMapping is the resolved color for a temperature.
type ColorMapping struct {
	ColorName string `json:"color_name"`
	ColorHex  string `json:"color_hex"`
}

// DailyTemperature is one persisted day. ColorName/ColorHex are denormalized
// copies of the range resolved at insert time; they are never recomputed.
type DailyTemperature struct {
	Date            string `db:"date" json:"date"`
	HighTemperature int    `db:"high_temperature" json:"high_temperature"`
	ColorName       string `db:"color_name" json:"color_name"`
	ColorHex        string `db:"color_hex" json:"color_hex"`
	Year            int    `db:"year" json:"year"`
	CreatedAt       string `db:"created_at" json:"created_at"`
}

// DailyInsert carries the fields written when a day is first ingested.
type DailyInsert struct {
	Date            string
	HighTemperature int
	ColorName       string
	ColorHex        string
	Year            int
}

// Stats summarizes the daily record table.
type Stats struct {
	Total  int     `json:"total"`
	Latest *string `json:"latest"`
}

// Progress is the singleton "last completed row" marker. LastKnittedDate is
// nil when nothing is marked; it is not required to reference an existing
// DailyTemperature.
type Progress struct {
	ID              int64   `db:"id" json:"-"`
	LastKnittedDate *string `db:"last_knitted_date" json:"last_knitted_date"`
	UpdatedAt       string  `db:"updated_at" json:"updated_at"`
}

// Store is the contract the SQLite store (and any future persistent store)
// must satisfy.
type Store interface {
	// SeedRanges inserts the given ranges in one transaction iff the range
	// table is empty. Repeated calls with existing data are no-ops.
	SeedRanges(ranges []RangeInsert) error
	GetRanges() ([]TemperatureRange, error)

	// InsertDaily writes a record keyed by date with insert-if-absent
	// semantics and reports whether a new row was created.
	InsertDaily(rec DailyInsert) (bool, error)
	GetAllDaily() ([]DailyTemperature, error)
	GetDailyByYear(year int) ([]DailyTemperature, error)
	GetDailyByDateRange(start, end string) ([]DailyTemperature, error)
	GetLatestDaily() (DailyTemperature, error)
	GetLastRecordedDate() (string, error)
	GetStats() (Stats, error)

	GetProgress() (*Progress, error)
	SetProgress(date *string) error
}
